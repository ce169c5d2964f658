package coordinator

import (
	"context"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

// AddPrecondition appends a precondition to a use case and persists it.
func (c *UseCaseCoordinator) AddPrecondition(ctx context.Context, useCaseID, text string) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	uc.AddPrecondition(text)
	return c.repo.Save(ctx, uc)
}

// AddPostcondition appends a postcondition to a use case and persists it.
func (c *UseCaseCoordinator) AddPostcondition(ctx context.Context, useCaseID, text string) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	uc.AddPostcondition(text)
	return c.repo.Save(ctx, uc)
}

// RemovePrecondition removes the 1-based indexed precondition and persists.
func (c *UseCaseCoordinator) RemovePrecondition(ctx context.Context, useCaseID string, index int) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	if err := uc.RemovePrecondition(index); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// RemovePostcondition removes the 1-based indexed postcondition and persists.
func (c *UseCaseCoordinator) RemovePostcondition(ctx context.Context, useCaseID string, index int) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	if err := uc.RemovePostcondition(index); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// AddUseCaseReference appends a use-case-to-use-case reference and persists.
func (c *UseCaseCoordinator) AddUseCaseReference(ctx context.Context, useCaseID string, ref domain.UseCaseReference) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	uc.AddUseCaseReference(ref)
	return c.repo.Save(ctx, uc)
}
