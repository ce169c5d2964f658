package domain

import (
	"regexp"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// kebabCaseID matches actor/persona identifiers: lowercase letters, digits,
// and single hyphens, starting with a letter.
var kebabCaseID = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Actor is a participant referenced by scenarios: a persona, a system, an
// external service, a database, or a custom kind.
type Actor struct {
	ID       string         `json:"id" toml:"id"`
	Name     string         `json:"name" toml:"name"`
	Type     ActorType      `json:"type" toml:"type"`
	Emoji    string         `json:"emoji,omitempty" toml:"emoji,omitempty"`
	Metadata Metadata       `json:"metadata" toml:"metadata"`
	Extra    map[string]any `json:"extra,omitempty" toml:"extra,omitempty"`

	// Persona-specific optional fields, populated only when Type == ActorTypePersona.
	Goals         []string `json:"goals,omitempty" toml:"goals,omitempty"`
	Frustrations  []string `json:"frustrations,omitempty" toml:"frustrations,omitempty"`
	TechProficiency string `json:"tech_proficiency,omitempty" toml:"tech_proficiency,omitempty"`
}

// NewActor constructs and validates a new Actor.
func NewActor(id, name string, actorType ActorType) (*Actor, error) {
	a := &Actor{ID: id, Name: name, Type: actorType, Extra: map[string]any{}}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	now := nowUTC()
	a.Metadata = Metadata{CreatedAt: now, UpdatedAt: now}
	return a, nil
}

// IsPersona reports whether this actor represents a persona.
func (a *Actor) IsPersona() bool { return a.Type == ActorTypePersona }

// Validate checks actor invariants: valid kebab-case id, non-empty name, and
// a recognised actor type.
func (a *Actor) Validate() error {
	if !kebabCaseID.MatchString(a.ID) {
		return apperr.Validation("actor id %q must be kebab-case", a.ID)
	}
	if a.Name == "" {
		return apperr.Validation("actor name must not be empty")
	}
	if !a.Type.Valid() {
		return apperr.Validation("actor type %q is invalid", a.Type)
	}
	return nil
}

// Touch updates UpdatedAt to now.
func (a *Actor) Touch() { a.Metadata.UpdatedAt = nowUTC() }
