// Package sqlstore implements domain.UseCaseRepository over a single SQLite
// database file, using modernc.org/sqlite (pure Go, no cgo), per spec §4.3.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/stringutil"
)

//go:embed schema.sql
var schemaSQL string

// execer is satisfied by both *sql.DB and *sql.Tx, letting the row
// read/write helpers run unmodified against either the shared connection or
// a transaction scope.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a SQLite-backed domain.UseCaseRepository. SQLite is a
// single-writer store; the shared *sql.DB connection is guarded by mu so no
// two goroutines interleave writes (spec §5, §9).
type Store struct {
	db         *sql.DB
	useCaseDir string
	mu         sync.Mutex
}

// Open opens (creating if absent) a SQLite database at dbPath and applies
// the schema. useCaseDir is where generated Markdown is written — the
// relational backend stores entities in the database but still emits
// Markdown to files (spec §4.3).
func Open(dbPath, useCaseDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, apperr.StorageFailure("creating database directory", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, apperr.StorageFailure("opening database", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, apperr.StorageFailure("enabling foreign keys", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, apperr.StorageFailure("applying schema", err)
	}

	return &Store{db: db, useCaseDir: useCaseDir}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) BackendName() string { return "relational" }

func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return apperr.StorageFailure("health check query failed", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, uc *domain.UseCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.StorageFailure("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := saveUseCase(ctx, tx, uc); err != nil {
		return err
	}
	return commitOrFail(tx)
}

func (s *Store) SaveBatch(ctx context.Context, ucs []*domain.UseCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.StorageFailure("beginning transaction", err)
	}
	defer tx.Rollback()

	for _, uc := range ucs {
		if err := saveUseCase(ctx, tx, uc); err != nil {
			return err
		}
	}
	return commitOrFail(tx)
}

func (s *Store) LoadAll(ctx context.Context) ([]*domain.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadAllUseCases(ctx, s.db)
}

func (s *Store) LoadByID(ctx context.Context, id string) (*domain.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadUseCaseByID(ctx, s.db, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.StorageFailure("beginning transaction", err)
	}
	defer tx.Rollback()

	var category string
	_ = tx.QueryRowContext(ctx, "SELECT category FROM use_cases WHERE id = ?", id).Scan(&category)
	if _, err := tx.ExecContext(ctx, "DELETE FROM use_cases WHERE id = ?", id); err != nil {
		return apperr.StorageFailure("deleting use case", err)
	}
	if err := commitOrFail(tx); err != nil {
		return err
	}
	if category != "" {
		mdDir := filepath.Join(s.useCaseDir, stringutil.ToSnakeCase(category))
		os.Remove(filepath.Join(mdDir, id+".md"))
		views, _ := filepath.Glob(filepath.Join(mdDir, id+"-*.md"))
		for _, v := range views {
			os.Remove(v)
		}
	}
	return nil
}

func (s *Store) DeleteBatch(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.StorageFailure("beginning transaction", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM use_cases WHERE id = ?", id); err != nil {
			return apperr.StorageFailure("deleting use case", err)
		}
	}
	return commitOrFail(tx)
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM use_cases WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperr.StorageFailure("checking existence", err)
	}
	return true, nil
}

// SaveMarkdown writes to <use_case_dir>/<category_snake>/<id>[-suffix].md,
// the same filename convention as the file backend, since Markdown always
// lands on the filesystem regardless of which backend stores the source
// record (spec §4.3).
func (s *Store) SaveMarkdown(ctx context.Context, id, suffix, content string) error {
	s.mu.Lock()
	uc, err := loadUseCaseByID(ctx, s.db, id)
	s.mu.Unlock()
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
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryUseCaseIDs(ctx, s.db, "SELECT id FROM use_cases WHERE lower(category) = lower(?) ORDER BY id", category)
}

func (s *Store) FindByPriority(ctx context.Context, priority string) ([]*domain.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryUseCaseIDs(ctx, s.db, "SELECT id FROM use_cases WHERE lower(priority) = lower(?) ORDER BY id", priority)
}

func (s *Store) SearchByTitle(ctx context.Context, substring string) ([]*domain.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryUseCaseIDs(ctx, s.db,
		"SELECT id FROM use_cases WHERE lower(title) LIKE '%' || lower(?) || '%' ORDER BY id", substring)
}

func queryUseCaseIDs(ctx context.Context, db execer, query string, arg string) ([]*domain.UseCase, error) {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, apperr.StorageFailure("querying use cases", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.StorageFailure("scanning use case id", err)
		}
		ids = append(ids, id)
	}

	out := make([]*domain.UseCase, 0, len(ids))
	for _, id := range ids {
		uc, err := loadUseCaseByID(ctx, db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, nil
}

// WithTransaction runs fn against a repository scoped to one
// database/sql.Tx: if fn returns an error, every write inside it is rolled
// back; otherwise the transaction commits (spec §4.1, §4.3, §5).
func (s *Store) WithTransaction(ctx context.Context, fn func(tx domain.UseCaseRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.StorageFailure("beginning transaction", err)
	}
	defer tx.Rollback()

	scoped := &txRepo{tx: tx, useCaseDir: s.useCaseDir}
	if err := fn(scoped); err != nil {
		return err
	}
	return commitOrFail(tx)
}

func commitOrFail(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return apperr.StorageFailure("committing transaction", err)
	}
	return nil
}
