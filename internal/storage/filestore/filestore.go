// Package filestore implements domain.UseCaseRepository over a plain-text
// TOML record tree, per spec §4.2: one source record per use case under
// <data_dir>/<category_snake>/, generated Markdown in a parallel tree under
// <use_case_dir>/<category_snake>/.
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/fuzzy"
	"github.com/Guillaumecoi/usecasemgr/internal/stringutil"
)

// Store is a file-backed domain.UseCaseRepository. It performs direct
// filesystem operations per call; mu serializes those calls within the
// process.
type Store struct {
	dataDir    string
	useCaseDir string

	mu sync.Mutex
}

// New returns a Store rooted at the given data and use-case directories.
func New(dataDir, useCaseDir string) *Store {
	return &Store{dataDir: dataDir, useCaseDir: useCaseDir}
}

func (s *Store) BackendName() string { return "file" }

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return apperr.StorageFailure("data directory not writable", err)
	}
	return nil
}

// categoryDir returns <dataDir>/<category_snake>.
func (s *Store) categoryDir(category string) string {
	return filepath.Join(s.dataDir, stringutil.ToSnakeCase(category))
}

func (s *Store) recordPath(category, id string) string {
	return filepath.Join(s.categoryDir(category), id+".toml")
}

// writeAtomic writes data to path via a sibling temp file (suffixed with a
// fresh uuid to avoid collisions across repeated saves of the same id in
// one process) followed by os.Rename, so a write failure never corrupts the
// previous version (spec §4.2).
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.StorageFailure("creating directory", err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperr.StorageFailure("writing temp file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperr.StorageFailure("renaming temp file into place", err)
	}
	return nil
}

// Save upserts the use case's source record, preserving created_at if a
// prior record exists.
func (s *Store) Save(ctx context.Context, uc *domain.UseCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(uc)
}

func (s *Store) saveLocked(uc *domain.UseCase) error {
	if err := uc.Validate(); err != nil {
		return err
	}
	path := s.recordPath(uc.Category, uc.ID)
	if existing, err := s.loadRecord(path); err == nil {
		uc.Metadata.CreatedAt = existing.Metadata.CreatedAt
	}
	uc.Touch()

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(uc); err != nil {
		return apperr.StorageFailure("serializing use case", err)
	}
	return writeAtomic(path, []byte(buf.String()))
}

// SaveBatch applies every save, all or nothing: records are serialised
// up-front so a validation/encoding failure aborts before any file is
// touched. Partial filesystem failure after that point is not rolled back
// (there is no native transaction on a plain file tree); this mirrors
// spec §4.3's "save-batch semantics" emulation of transactions.
func (s *Store) SaveBatch(ctx context.Context, ucs []*domain.UseCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type pending struct {
		path string
		data []byte
	}
	batch := make([]pending, 0, len(ucs))
	for _, uc := range ucs {
		if err := uc.Validate(); err != nil {
			return err
		}
		path := s.recordPath(uc.Category, uc.ID)
		if existing, err := s.loadRecord(path); err == nil {
			uc.Metadata.CreatedAt = existing.Metadata.CreatedAt
		}
		uc.Touch()
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(uc); err != nil {
			return apperr.StorageFailure("serializing use case", err)
		}
		batch = append(batch, pending{path: path, data: []byte(buf.String())})
	}
	for _, p := range batch {
		if err := writeAtomic(p.path, p.data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadRecord(path string) (*domain.UseCase, error) {
	var uc domain.UseCase
	if _, err := toml.DecodeFile(path, &uc); err != nil {
		return nil, err
	}
	return &uc, nil
}

// LoadAll walks the data directory and returns every use case, sorted
// ascending by id.
func (s *Store) LoadAll(ctx context.Context) ([]*domain.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAllLocked()
}

func (s *Store) loadAllLocked() ([]*domain.UseCase, error) {
	var out []*domain.UseCase
	entries, err := os.ReadDir(s.dataDir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, apperr.StorageFailure("reading data directory", err)
	}
	for _, catDir := range entries {
		if !catDir.IsDir() {
			continue
		}
		dir := filepath.Join(s.dataDir, catDir.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".toml") {
				continue
			}
			uc, err := s.loadRecord(filepath.Join(dir, f.Name()))
			if err != nil {
				continue
			}
			out = append(out, uc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadByID scans every category directory for the record matching id, since
// the category directory name (a snake-case slug) cannot be derived from
// the id's 3-letter category abbreviation alone.
func (s *Store) LoadByID(ctx context.Context, id string) (*domain.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadByIDLocked(id)
}

func (s *Store) loadByIDLocked(id string) (*domain.UseCase, error) {
	all, err := s.loadAllLocked()
	if err != nil {
		return nil, err
	}
	for _, uc := range all {
		if uc.ID == id {
			return uc, nil
		}
	}
	ids := make([]string, len(all))
	for i, uc := range all {
		ids[i] = uc.ID
	}
	return nil, apperr.NotFound("use case", id, fuzzy.ClosestMatches(id, ids, 3))
}

// Delete removes the source record and the generated view Markdown files
// (<id>.md, <id>-*.md) for id; the overview is left as is. It does not remove the generated test file (spec open question,
// resolved in DESIGN.md). Deleting a non-existent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) deleteLocked(id string) error {
	uc, err := s.loadByIDLocked(id)
	if err != nil {
		if appErr, ok := apperr.As(err); ok && appErr.Kind == apperr.KindNotFound {
			return nil
		}
		return err
	}

	if err := os.Remove(s.recordPath(uc.Category, uc.ID)); err != nil && !os.IsNotExist(err) {
		return apperr.StorageFailure("removing source record", err)
	}

	mdDir := filepath.Join(s.useCaseDir, stringutil.ToSnakeCase(uc.Category))
	matches, _ := filepath.Glob(filepath.Join(mdDir, id+"*.md"))
	for _, m := range matches {
		base := filepath.Base(m)
		if base == id+".md" || strings.HasPrefix(base, id+"-") {
			os.Remove(m)
		}
	}
	return nil
}

// DeleteBatch deletes every id, ignoring ids that do not exist.
func (s *Store) DeleteBatch(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if err := s.deleteLocked(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.loadByIDLocked(id)
	if err == nil {
		return true, nil
	}
	if appErr, ok := apperr.As(err); ok && appErr.Kind == apperr.KindNotFound {
		return false, nil
	}
	return false, err
}

// SaveMarkdown writes rendered content to
// <use_case_dir>/<category_snake>/<id>[-<suffix>].md. The source record must
// already exist so the category can be resolved.
func (s *Store) SaveMarkdown(ctx context.Context, id, suffix, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc, err := s.loadByIDLocked(id)
	if err != nil {
		return err
	}
	name := id
	if suffix != "" {
		name += "-" + suffix
	}
	path := filepath.Join(s.useCaseDir, stringutil.ToSnakeCase(uc.Category), name+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.StorageFailure("creating use case directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.StorageFailure("writing markdown", err)
	}
	return nil
}

func (s *Store) FindByCategory(ctx context.Context, category string) ([]*domain.UseCase, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.UseCase
	for _, uc := range all {
		if strings.EqualFold(uc.Category, category) {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (s *Store) FindByPriority(ctx context.Context, priority string) ([]*domain.UseCase, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.UseCase
	for _, uc := range all {
		if strings.EqualFold(string(uc.Priority), priority) {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (s *Store) SearchByTitle(ctx context.Context, substring string) ([]*domain.UseCase, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(substring)
	var out []*domain.UseCase
	for _, uc := range all {
		if strings.Contains(strings.ToLower(uc.Title), needle) {
			out = append(out, uc)
		}
	}
	return out, nil
}

// WithTransaction buffers writes made through fn's scoped repository and
// applies them only if fn returns nil, approximating all-or-nothing
// visibility for a backend with no native transaction (spec §4.1, §5).
func (s *Store) WithTransaction(ctx context.Context, fn func(tx domain.UseCaseRepository) error) error {
	buffered := newBufferedTx(s)
	if err := fn(buffered); err != nil {
		return err
	}
	return buffered.commit(ctx)
}

var maxSeqPattern = regexp.MustCompile(`^UC-[A-Z]{3}-(\d{3})`)

// ScanCategoryMaxSeq scans <use_case_dir>/<category_snake> for
// UC-<CAT>-NNN[...].md filenames and returns the maximum NNN found, or 0 if
// none (spec §4.10).
func (s *Store) ScanCategoryMaxSeq(ctx context.Context, category string) (int, error) {
	dir := filepath.Join(s.useCaseDir, stringutil.ToSnakeCase(category))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.StorageFailure("scanning category directory", err)
	}
	max := 0
	for _, e := range entries {
		m := maxSeqPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}
