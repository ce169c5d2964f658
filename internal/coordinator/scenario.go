package coordinator

import (
	"context"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

// loadForMutation loads a use case by id for a mutate-then-save operation.
func (c *UseCaseCoordinator) loadForMutation(ctx context.Context, useCaseID string) (*domain.UseCase, error) {
	return c.repo.LoadByID(ctx, useCaseID)
}

func (c *UseCaseCoordinator) findScenario(uc *domain.UseCase, scenarioID string) (*domain.Scenario, error) {
	sc := uc.FindScenario(scenarioID)
	if sc == nil {
		return nil, apperr.NotFound("scenario", scenarioID, nil)
	}
	return sc, nil
}

// AddScenario appends a scenario to a use case and persists it. It does not
// regenerate Markdown (spec §4.9: writes stay cheap until the caller asks).
func (c *UseCaseCoordinator) AddScenario(ctx context.Context, useCaseID string, sc domain.Scenario) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	if err := uc.AddScenario(sc); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// AddScenarioStep appends a step to a scenario and persists the use case.
func (c *UseCaseCoordinator) AddScenarioStep(ctx context.Context, useCaseID, scenarioID string, step domain.Step) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	sc, err := c.findScenario(uc, scenarioID)
	if err != nil {
		return err
	}
	if err := sc.AddStep(step); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// RemoveScenarioStep removes a step by its 1-based order.
func (c *UseCaseCoordinator) RemoveScenarioStep(ctx context.Context, useCaseID, scenarioID string, order int) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	sc, err := c.findScenario(uc, scenarioID)
	if err != nil {
		return err
	}
	if err := sc.RemoveStep(order); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// UpdateScenarioStatus transitions a scenario's status, enforcing the
// forward-only transition rule (domain.Status.CanTransitionTo).
func (c *UseCaseCoordinator) UpdateScenarioStatus(ctx context.Context, useCaseID, scenarioID string, status domain.Status) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	sc, err := c.findScenario(uc, scenarioID)
	if err != nil {
		return err
	}
	if err := sc.UpdateStatus(status); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// EditScenario mutates a scenario's title/description (nil leaves the field
// unchanged) and persists.
func (c *UseCaseCoordinator) EditScenario(ctx context.Context, useCaseID, scenarioID string, title, description *string) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	sc, err := c.findScenario(uc, scenarioID)
	if err != nil {
		return err
	}
	if title != nil {
		sc.Title = *title
	}
	if description != nil {
		sc.Description = *description
	}
	return c.repo.Save(ctx, uc)
}

// DeleteScenario removes a scenario, rejecting deletion while another
// scenario still references it (domain.UseCase.DeleteScenario).
func (c *UseCaseCoordinator) DeleteScenario(ctx context.Context, useCaseID, scenarioID string) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	if err := uc.DeleteScenario(scenarioID); err != nil {
		return err
	}
	return c.repo.Save(ctx, uc)
}

// AddScenarioReference appends a reference from scenarioID to ref, rejecting
// a Scenario-typed reference that would close a dependency cycle (spec
// §4.9, domain.UseCase.ValidateNoScenarioCycle).
func (c *UseCaseCoordinator) AddScenarioReference(ctx context.Context, useCaseID, scenarioID string, ref domain.ScenarioReference) error {
	uc, err := c.loadForMutation(ctx, useCaseID)
	if err != nil {
		return err
	}
	sc, err := c.findScenario(uc, scenarioID)
	if err != nil {
		return err
	}
	if ref.RefType == domain.RefScenario {
		if err := uc.ValidateNoScenarioCycle(scenarioID, ref.TargetID); err != nil {
			return err
		}
	}
	sc.AddReference(ref)
	return c.repo.Save(ctx, uc)
}
