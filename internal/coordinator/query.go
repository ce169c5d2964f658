package coordinator

import (
	"context"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

// GetUseCase loads a use case by id.
func (c *UseCaseCoordinator) GetUseCase(ctx context.Context, id string) (*domain.UseCase, error) {
	return c.repo.LoadByID(ctx, id)
}

// ListUseCases returns every use case on record.
func (c *UseCaseCoordinator) ListUseCases(ctx context.Context) ([]*domain.UseCase, error) {
	return c.repo.LoadAll(ctx)
}

// DeleteUseCase removes a use case's source record (never the generated
// test file — spec §9's cascade-delete resolution, see DESIGN.md).
func (c *UseCaseCoordinator) DeleteUseCase(ctx context.Context, id string) error {
	return c.repo.Delete(ctx, id)
}
