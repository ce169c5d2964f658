// Package domain holds the use-case/scenario/actor data model and its
// mutation invariants, independent of how it is persisted or rendered.
package domain

import "time"

// Priority is one of the four allowed use case priorities.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Status is a scenario's lifecycle state. Transitions only move forward
// through this list, except that Deprecated is reachable as a sink from any
// state (see CanTransitionTo).
type Status string

const (
	StatusPlanned     Status = "Planned"
	StatusInProgress  Status = "InProgress"
	StatusImplemented Status = "Implemented"
	StatusTested      Status = "Tested"
	StatusDeployed    Status = "Deployed"
	StatusDeprecated  Status = "Deprecated"
)

var statusOrder = []Status{
	StatusPlanned, StatusInProgress, StatusImplemented, StatusTested, StatusDeployed,
}

func (s Status) Valid() bool {
	if s == StatusDeprecated {
		return true
	}
	for _, st := range statusOrder {
		if st == s {
			return true
		}
	}
	return false
}

func (s Status) index() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo reports whether moving from s to target is an allowed
// status transition: strictly forward through statusOrder, or into
// Deprecated from any state. No backward transitions are allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.Valid() {
		return false
	}
	if target == StatusDeprecated {
		return true
	}
	if s == StatusDeprecated {
		return false
	}
	from := s.index()
	to := target.index()
	if from < 0 || to < 0 {
		return false
	}
	return to > from
}

// ScenarioType categorizes a scenario's flow. The set is extensible; only
// non-empty values are required.
type ScenarioType string

const (
	ScenarioHappyPath        ScenarioType = "HappyPath"
	ScenarioAlternativeFlow  ScenarioType = "AlternativeFlow"
	ScenarioExceptionFlow    ScenarioType = "ExceptionFlow"
)

// ActorType is one of the fixed actor kinds.
type ActorType string

const (
	ActorTypePersona          ActorType = "Persona"
	ActorTypeSystem           ActorType = "System"
	ActorTypeExternalService  ActorType = "ExternalService"
	ActorTypeDatabase         ActorType = "Database"
	ActorTypeCustom           ActorType = "Custom"
)

func (t ActorType) Valid() bool {
	switch t {
	case ActorTypePersona, ActorTypeSystem, ActorTypeExternalService, ActorTypeDatabase, ActorTypeCustom:
		return true
	default:
		return false
	}
}

// ReferenceType distinguishes a scenario reference's target kind.
type ReferenceType string

const (
	RefUseCase  ReferenceType = "UseCase"
	RefScenario ReferenceType = "Scenario"
)

// Common relationship names. The field is extensible and validated only by
// string equality, per spec §3.
const (
	RelationshipDependency  = "dependency"
	RelationshipExtension   = "extension"
	RelationshipInclusion   = "inclusion"
	RelationshipAlternative = "alternative"
)

// Metadata carries entity-level timestamps, UTC with second precision.
type Metadata struct {
	CreatedAt time.Time `json:"created_at" toml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" toml:"updated_at"`
}

// nowUTC returns the current UTC time with sub-second precision dropped,
// matching the second-precision timestamp contract.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
