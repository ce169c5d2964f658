package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/fuzzy"
)

// ActorStore implements domain.ActorRepository over a flat tree of TOML
// records under <actorDir>/<id>.toml. Actors have no category, unlike use
// cases, so the tree is flat rather than split by subdirectory.
type ActorStore struct {
	actorDir string
	mu       sync.Mutex
}

// NewActorStore returns an ActorStore rooted at actorDir.
func NewActorStore(actorDir string) *ActorStore {
	return &ActorStore{actorDir: actorDir}
}

func (s *ActorStore) recordPath(id string) string {
	return filepath.Join(s.actorDir, id+".toml")
}

// Save upserts the actor's record, preserving created_at if a prior record
// exists.
func (s *ActorStore) Save(ctx context.Context, a *domain.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := a.Validate(); err != nil {
		return err
	}
	path := s.recordPath(a.ID)
	if existing, err := s.loadRecord(path); err == nil {
		a.Metadata.CreatedAt = existing.Metadata.CreatedAt
	}
	a.Touch()

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(a); err != nil {
		return apperr.StorageFailure("serializing actor", err)
	}
	return writeAtomic(path, []byte(buf.String()))
}

func (s *ActorStore) loadRecord(path string) (*domain.Actor, error) {
	var a domain.Actor
	if _, err := toml.DecodeFile(path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadAll returns every actor, sorted ascending by id.
func (s *ActorStore) LoadAll(ctx context.Context) ([]*domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAllLocked()
}

func (s *ActorStore) loadAllLocked() ([]*domain.Actor, error) {
	var out []*domain.Actor
	entries, err := os.ReadDir(s.actorDir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, apperr.StorageFailure("reading actor directory", err)
	}
	for _, f := range entries {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".toml") {
			continue
		}
		a, err := s.loadRecord(filepath.Join(s.actorDir, f.Name()))
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadByID returns the actor with the given id, or a NotFound error with
// fuzzy suggestions.
func (s *ActorStore) LoadByID(ctx context.Context, id string) (*domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.loadRecord(s.recordPath(id))
	if err == nil {
		return a, nil
	}
	all, _ := s.loadAllLocked()
	ids := make([]string, len(all))
	for i, existing := range all {
		ids[i] = existing.ID
	}
	return nil, apperr.NotFound("actor", id, fuzzy.ClosestMatches(id, ids, 3))
}

// Delete removes the actor's record. Deleting a non-existent id is not an
// error.
func (s *ActorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.recordPath(id)); err != nil && !os.IsNotExist(err) {
		return apperr.StorageFailure("removing actor record", err)
	}
	return nil
}

// Exists reports whether an actor with the given id is stored.
func (s *ActorStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.recordPath(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, apperr.StorageFailure("checking actor record", err)
}
