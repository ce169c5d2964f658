package coordinator

import (
	"context"

	"github.com/Guillaumecoi/usecasemgr/internal/config"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
)

// CreateActor creates and persists a non-persona actor (System,
// ExternalService, Database, Custom). Supplemented from original_source's
// actor_service (spec.md §3 names Actor as first-class but leaves the
// service surface to the implementation).
func (c *UseCaseCoordinator) CreateActor(ctx context.Context, id, name string, actorType domain.ActorType) (*domain.Actor, error) {
	a, err := domain.NewActor(id, name, actorType)
	if err != nil {
		return nil, err
	}
	if err := c.actors.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CreatePersona creates a Persona actor, applying the project's configured
// actor.persona_fields: required fields absent from fields fall back to
// their configured default, or a type-appropriate empty value. Supplemented
// from original_source's persona_service.
func (c *UseCaseCoordinator) CreatePersona(ctx context.Context, id, name string, fields map[string]string) (*domain.Actor, error) {
	a, err := domain.NewActor(id, name, domain.ActorTypePersona)
	if err != nil {
		return nil, err
	}

	for fieldName, def := range c.config.Actor.PersonaFields {
		raw, supplied := fields[fieldName]
		var value any
		switch {
		case supplied:
			value = methodology.CoerceValue(methodology.FieldType(def.Type), raw)
		case def.Default != nil:
			value = def.Default
		case def.Required:
			value = methodology.CoerceValue(methodology.FieldType(def.Type), "")
		default:
			continue
		}
		applyPersonaField(a, fieldName, value)
	}

	if err := c.actors.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// applyPersonaField routes a coerced persona field value into Actor's typed
// persona fields when the name matches one of them, otherwise into Extra.
func applyPersonaField(a *domain.Actor, name string, value any) {
	switch name {
	case "goals":
		if v, ok := value.([]string); ok {
			a.Goals = v
			return
		}
	case "frustrations":
		if v, ok := value.([]string); ok {
			a.Frustrations = v
			return
		}
	case "tech_proficiency":
		if v, ok := value.(string); ok {
			a.TechProficiency = v
			return
		}
	}
	a.Extra[name] = value
}

// GetActor loads an actor by id.
func (c *UseCaseCoordinator) GetActor(ctx context.Context, id string) (*domain.Actor, error) {
	return c.actors.LoadByID(ctx, id)
}

// ListActors returns every actor.
func (c *UseCaseCoordinator) ListActors(ctx context.Context) ([]*domain.Actor, error) {
	return c.actors.LoadAll(ctx)
}

// DeleteActor removes an actor by id.
func (c *UseCaseCoordinator) DeleteActor(ctx context.Context, id string) error {
	return c.actors.Delete(ctx, id)
}

// PersonaFieldDefs returns the project's configured persona field
// definitions, for callers (the CLI) that want to prompt for them.
func (c *UseCaseCoordinator) PersonaFieldDefs() map[string]config.PersonaFieldDef {
	return c.config.Actor.PersonaFields
}
