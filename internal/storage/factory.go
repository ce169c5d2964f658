// Package storage dispatches on project configuration to construct the
// configured domain.UseCaseRepository backend (spec §4.1's component E).
package storage

import (
	"io"
	"path/filepath"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/config"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/storage/filestore"
	"github.com/Guillaumecoi/usecasemgr/internal/storage/sqlstore"
)

// nopCloser adapts a repository with no real resources to close (the file
// backend) to io.Closer.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Repositories bundles the backend-specific repositories the coordinator
// needs, plus the io.Closer the caller must close on every exit path (spec
// §5's resource lifecycle rule).
type Repositories struct {
	UseCases domain.UseCaseRepository
	Actors   domain.ActorRepository
	Closer   io.Closer
}

// Factory constructs the repositories named by cfg.Storage.Backend.
func Factory(projectRoot string, cfg *config.ProjectConfig) (*Repositories, error) {
	switch cfg.Storage.Backend {
	case config.StorageText:
		dataDir := filepath.Join(projectRoot, cfg.Directories.EffectiveDataDir())
		useCaseDir := filepath.Join(projectRoot, cfg.Directories.UseCaseDir)
		actorDir := filepath.Join(projectRoot, cfg.Directories.ActorDir)
		return &Repositories{
			UseCases: filestore.New(dataDir, useCaseDir),
			Actors:   filestore.NewActorStore(actorDir),
			Closer:   nopCloser{},
		}, nil

	case config.StorageRelational:
		dbPath := filepath.Join(projectRoot, config.ConfigDirName, "usecasemgr.db")
		useCaseDir := filepath.Join(projectRoot, cfg.Directories.UseCaseDir)
		store, err := sqlstore.Open(dbPath, useCaseDir)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			UseCases: store,
			Actors:   store.Actors(),
			Closer:   store,
		}, nil

	default:
		return nil, apperr.ConfigInvalid("unknown storage backend %q", cfg.Storage.Backend)
	}
}
