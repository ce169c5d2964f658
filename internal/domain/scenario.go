package domain

import (
	"fmt"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// Condition is a pre/postcondition on a scenario or use case, optionally
// targeting another entity.
type Condition struct {
	Text       string  `json:"text" toml:"text"`
	TargetID   *string `json:"target_id,omitempty" toml:"target_id,omitempty"`
	TargetType *string `json:"target_type,omitempty" toml:"target_type,omitempty"`
}

func (c Condition) key() string {
	id := ""
	if c.TargetID != nil {
		id = *c.TargetID
	}
	return c.Text + "\x00" + id
}

// Step is one ordered action within a scenario.
type Step struct {
	Order       int    `json:"order" toml:"order"`
	Actor       string `json:"actor" toml:"actor"`
	Receiver    string `json:"receiver,omitempty" toml:"receiver,omitempty"`
	Action      string `json:"action" toml:"action"`
	Description string `json:"description" toml:"description"`
	Notes       string `json:"notes,omitempty" toml:"notes,omitempty"`
}

// ScenarioReference links a scenario to another use case or scenario.
type ScenarioReference struct {
	RefType      ReferenceType `json:"ref_type" toml:"ref_type"`
	TargetID     string        `json:"target_id" toml:"target_id"`
	Relationship string        `json:"relationship" toml:"relationship"`
	Description  string        `json:"description,omitempty" toml:"description,omitempty"`
}

// Scenario is one ordered, typed flow within a use case.
type Scenario struct {
	ID             string              `json:"id" toml:"id"`
	Title          string              `json:"title" toml:"title"`
	Description    string              `json:"description" toml:"description"`
	Status         Status              `json:"status" toml:"status"`
	ScenarioType   ScenarioType        `json:"scenario_type" toml:"scenario_type"`
	Persona        string              `json:"persona,omitempty" toml:"persona,omitempty"`
	Steps          []Step              `json:"steps" toml:"steps"`
	Preconditions  []Condition         `json:"preconditions" toml:"preconditions"`
	Postconditions []Condition         `json:"postconditions" toml:"postconditions"`
	References     []ScenarioReference `json:"references" toml:"references"`
}

// NewScenario constructs a scenario in the Planned state.
func NewScenario(id, title, description string, scenarioType ScenarioType) *Scenario {
	return &Scenario{
		ID:           id,
		Title:        title,
		Description:  description,
		Status:       StatusPlanned,
		ScenarioType: scenarioType,
	}
}

// AddStep appends a step, rejecting duplicate 1-based orders.
func (s *Scenario) AddStep(step Step) error {
	for _, existing := range s.Steps {
		if existing.Order == step.Order {
			return apperr.Validation("duplicate step order %d in scenario %s", step.Order, s.ID)
		}
	}
	s.Steps = append(s.Steps, step)
	return nil
}

// RemoveStep removes the step with the given 1-based order. Removing a
// non-existent order is a Validation error (index out of bounds per §7).
func (s *Scenario) RemoveStep(order int) error {
	for i, step := range s.Steps {
		if step.Order == order {
			s.Steps = append(s.Steps[:i], s.Steps[i+1:]...)
			return nil
		}
	}
	return apperr.Validation("step order %d not found in scenario %s", order, s.ID)
}

// AddPrecondition appends a precondition, rejecting an identical
// (text, target) duplicate.
func (s *Scenario) AddPrecondition(c Condition) error {
	for _, existing := range s.Preconditions {
		if existing.key() == c.key() {
			return apperr.Validation("duplicate precondition %q on scenario %s", c.Text, s.ID)
		}
	}
	s.Preconditions = append(s.Preconditions, c)
	return nil
}

// AddPostcondition appends a postcondition, rejecting an identical
// (text, target) duplicate.
func (s *Scenario) AddPostcondition(c Condition) error {
	for _, existing := range s.Postconditions {
		if existing.key() == c.key() {
			return apperr.Validation("duplicate postcondition %q on scenario %s", c.Text, s.ID)
		}
	}
	s.Postconditions = append(s.Postconditions, c)
	return nil
}

// AddReference appends a scenario reference. Cycle-freedom for
// ref_type=Scenario is validated by the caller (use case-scoped, see
// UseCase.ValidateNoScenarioCycle) since it needs the enclosing use case's
// full scenario graph.
func (s *Scenario) AddReference(ref ScenarioReference) {
	s.References = append(s.References, ref)
}

// UpdateStatus transitions the scenario's status, enforcing forward-only
// transitions with Deprecated reachable as a sink.
func (s *Scenario) UpdateStatus(to Status) error {
	if !s.Status.CanTransitionTo(to) {
		return apperr.Validation("cannot transition scenario %s from %s to %s", s.ID, s.Status, to)
	}
	s.Status = to
	return nil
}

// ScenarioIDFor computes the <use_case_id>-S<NN> id for the nth (1-based)
// scenario of a use case.
func ScenarioIDFor(useCaseID string, n int) string {
	return fmt.Sprintf("%s-S%02d", useCaseID, n)
}
