package sqlstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/stringutil"
)

// txRepo is the transaction-scoped repository handed to a WithTransaction
// callback. It implements the same domain.UseCaseRepository contract as
// Store, but every call executes against tx instead of the shared
// connection.
type txRepo struct {
	tx         *sql.Tx
	useCaseDir string
}

func (t *txRepo) Save(ctx context.Context, uc *domain.UseCase) error {
	return saveUseCase(ctx, t.tx, uc)
}

func (t *txRepo) SaveBatch(ctx context.Context, ucs []*domain.UseCase) error {
	for _, uc := range ucs {
		if err := saveUseCase(ctx, t.tx, uc); err != nil {
			return err
		}
	}
	return nil
}

func (t *txRepo) LoadAll(ctx context.Context) ([]*domain.UseCase, error) {
	return loadAllUseCases(ctx, t.tx)
}

func (t *txRepo) LoadByID(ctx context.Context, id string) (*domain.UseCase, error) {
	return loadUseCaseByID(ctx, t.tx, id)
}

func (t *txRepo) Delete(ctx context.Context, id string) error {
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM use_cases WHERE id = ?", id); err != nil {
		return apperr.StorageFailure("deleting use case", err)
	}
	return nil
}

func (t *txRepo) DeleteBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := t.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (t *txRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, "SELECT 1 FROM use_cases WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperr.StorageFailure("checking existence", err)
	}
	return true, nil
}

func (t *txRepo) SaveMarkdown(ctx context.Context, id, suffix, content string) error {
	uc, err := loadUseCaseByID(ctx, t.tx, id)
	if err != nil {
		return err
	}
	name := id
	if suffix != "" {
		name += "-" + suffix
	}
	path := filepath.Join(t.useCaseDir, stringutil.ToSnakeCase(uc.Category), name+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.StorageFailure("creating use case directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.StorageFailure("writing markdown", err)
	}
	return nil
}

func (t *txRepo) FindByCategory(ctx context.Context, category string) ([]*domain.UseCase, error) {
	return queryUseCaseIDs(ctx, t.tx, "SELECT id FROM use_cases WHERE lower(category) = lower(?) ORDER BY id", category)
}

func (t *txRepo) FindByPriority(ctx context.Context, priority string) ([]*domain.UseCase, error) {
	return queryUseCaseIDs(ctx, t.tx, "SELECT id FROM use_cases WHERE lower(priority) = lower(?) ORDER BY id", priority)
}

func (t *txRepo) SearchByTitle(ctx context.Context, substring string) ([]*domain.UseCase, error) {
	return queryUseCaseIDs(ctx, t.tx,
		"SELECT id FROM use_cases WHERE lower(title) LIKE '%' || lower(?) || '%' ORDER BY id", substring)
}

// WithTransaction nested inside an existing transaction runs fn directly
// against the same tx scope rather than opening a nested one (SQLite has no
// true nested transactions without savepoints, which this system does not
// need).
func (t *txRepo) WithTransaction(ctx context.Context, fn func(tx domain.UseCaseRepository) error) error {
	return fn(t)
}

func (t *txRepo) BackendName() string { return "relational" }

func (t *txRepo) HealthCheck(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, "SELECT 1"); err != nil {
		return apperr.StorageFailure("health check query failed", err)
	}
	return nil
}
