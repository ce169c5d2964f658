package domain

import (
	"regexp"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

var useCaseIDPattern = regexp.MustCompile(`^UC-[A-Z]{3}-\d{3}$`)

// MethodologyView is a (methodology, level) pair selected for a use case.
// Each enabled view produces one rendered Markdown file.
type MethodologyView struct {
	Methodology string `json:"methodology" toml:"methodology"`
	Level       string `json:"level" toml:"level"`
	Enabled     bool   `json:"enabled" toml:"enabled"`
}

// Key returns the "<methodology>-<level>" template lookup key for this view.
func (v MethodologyView) Key() string {
	return v.Methodology + "-" + v.Level
}

// UseCaseReference links a use case to another use case by id.
type UseCaseReference struct {
	TargetID     string `json:"target_id" toml:"target_id"`
	Relationship string `json:"relationship" toml:"relationship"`
	Description  string `json:"description,omitempty" toml:"description,omitempty"`
}

// UseCase is a categorised behavioural spec rendered into Markdown.
type UseCase struct {
	ID          string   `json:"id" toml:"id"`
	Title       string   `json:"title" toml:"title"`
	Category    string   `json:"category" toml:"category"`
	Description string   `json:"description" toml:"description"`
	Priority    Priority `json:"priority" toml:"priority"`
	Metadata    Metadata `json:"metadata" toml:"metadata"`

	Views []MethodologyView `json:"views" toml:"views"`

	Preconditions  []string `json:"preconditions" toml:"preconditions"`
	Postconditions []string `json:"postconditions" toml:"postconditions"`

	UseCaseReferences []UseCaseReference `json:"use_case_references" toml:"use_case_references"`

	Scenarios []Scenario `json:"scenarios" toml:"scenarios"`

	// MethodologyFields maps methodology -> field name -> typed value.
	MethodologyFields map[string]map[string]any `json:"methodology_fields" toml:"methodology_fields"`

	// Extra is merged into the rendering data tree at the top level.
	Extra map[string]any `json:"extra,omitempty" toml:"extra,omitempty"`
}

// NewUseCase constructs a new use case with empty scenarios and the given
// view set. description may be empty (persisted as "").
func NewUseCase(id, title, category, description string, priority Priority, views []MethodologyView) (*UseCase, error) {
	uc := &UseCase{
		ID:                id,
		Title:             title,
		Category:          category,
		Description:       description,
		Priority:          priority,
		Views:             views,
		MethodologyFields: map[string]map[string]any{},
		Extra:             map[string]any{},
	}
	if err := uc.Validate(); err != nil {
		return nil, err
	}
	now := nowUTC()
	uc.Metadata = Metadata{CreatedAt: now, UpdatedAt: now}
	return uc, nil
}

// Validate checks the use case's own invariants (id format, non-empty
// title/category, valid priority, at least one enabled view required only
// at Markdown-generation time — not at construction).
func (uc *UseCase) Validate() error {
	if !useCaseIDPattern.MatchString(uc.ID) {
		return apperr.Validation("use case id %q must match UC-<CAT>-<NNN>", uc.ID)
	}
	if uc.Title == "" {
		return apperr.Validation("use case title must not be empty")
	}
	if uc.Category == "" {
		return apperr.Validation("use case category must not be empty")
	}
	if !isASCII(uc.Category) {
		return apperr.Validation("use case category %q must be ASCII", uc.Category)
	}
	if !uc.Priority.Valid() {
		return apperr.Validation("use case priority %q is invalid", uc.Priority)
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// IsMultiView reports whether this use case has 2 or more declared views
// (enabled or not), per spec §3.
func (uc *UseCase) IsMultiView() bool {
	return len(uc.Views) >= 2
}

// EnabledViews returns the subset of Views with Enabled == true.
func (uc *UseCase) EnabledViews() []MethodologyView {
	var out []MethodologyView
	for _, v := range uc.Views {
		if v.Enabled {
			out = append(out, v)
		}
	}
	return out
}

// AddView appends a view to the use case.
func (uc *UseCase) AddView(v MethodologyView) {
	uc.Views = append(uc.Views, v)
}

// AddPrecondition appends a precondition string. Duplicates are allowed.
func (uc *UseCase) AddPrecondition(text string) {
	uc.Preconditions = append(uc.Preconditions, text)
}

// AddPostcondition appends a postcondition string. Duplicates are allowed.
func (uc *UseCase) AddPostcondition(text string) {
	uc.Postconditions = append(uc.Postconditions, text)
}

// RemovePrecondition removes the 1-based indexed precondition.
func (uc *UseCase) RemovePrecondition(index int) error {
	if index < 1 || index > len(uc.Preconditions) {
		return apperr.Validation("precondition index %d out of bounds", index)
	}
	uc.Preconditions = append(uc.Preconditions[:index-1], uc.Preconditions[index:]...)
	return nil
}

// RemovePostcondition removes the 1-based indexed postcondition.
func (uc *UseCase) RemovePostcondition(index int) error {
	if index < 1 || index > len(uc.Postconditions) {
		return apperr.Validation("postcondition index %d out of bounds", index)
	}
	uc.Postconditions = append(uc.Postconditions[:index-1], uc.Postconditions[index:]...)
	return nil
}

// AddUseCaseReference appends a reference to another use case by id.
func (uc *UseCase) AddUseCaseReference(ref UseCaseReference) {
	uc.UseCaseReferences = append(uc.UseCaseReferences, ref)
}

// FindScenario returns a pointer to the scenario with the given id, or nil.
func (uc *UseCase) FindScenario(id string) *Scenario {
	for i := range uc.Scenarios {
		if uc.Scenarios[i].ID == id {
			return &uc.Scenarios[i]
		}
	}
	return nil
}

// AddScenario inserts a scenario, keeping Scenarios ordered by id, and
// rejects a duplicate scenario id.
func (uc *UseCase) AddScenario(s Scenario) error {
	if uc.FindScenario(s.ID) != nil {
		return apperr.Validation("scenario id %q already exists in use case %s", s.ID, uc.ID)
	}
	i := 0
	for ; i < len(uc.Scenarios); i++ {
		if uc.Scenarios[i].ID > s.ID {
			break
		}
	}
	uc.Scenarios = append(uc.Scenarios, Scenario{})
	copy(uc.Scenarios[i+1:], uc.Scenarios[i:])
	uc.Scenarios[i] = s
	return nil
}

// referencedScenarioIDs returns the set of scenario ids referenced (as
// ref_type=Scenario) by any scenario other than excludeID.
func (uc *UseCase) referencedScenarioIDs(excludeID string) map[string]bool {
	referenced := map[string]bool{}
	for _, s := range uc.Scenarios {
		if s.ID == excludeID {
			continue
		}
		for _, ref := range s.References {
			if ref.RefType == RefScenario {
				referenced[ref.TargetID] = true
			}
		}
	}
	return referenced
}

// DeleteScenario removes the scenario with the given id. It is forbidden if
// any other scenario in the use case still references it.
func (uc *UseCase) DeleteScenario(id string) error {
	if uc.FindScenario(id) == nil {
		return apperr.NotFound("scenario", id, nil)
	}
	if uc.referencedScenarioIDs(id)[id] {
		return apperr.Validation("cannot delete scenario %s: still referenced by another scenario", id)
	}
	for i, s := range uc.Scenarios {
		if s.ID == id {
			uc.Scenarios = append(uc.Scenarios[:i], uc.Scenarios[i+1:]...)
			return nil
		}
	}
	return nil
}

// ValidateNoScenarioCycle checks that adding a Scenario-typed reference
// from->to would not close a cycle in the use case's scenario-reference
// graph (existing references plus the proposed edge).
func (uc *UseCase) ValidateNoScenarioCycle(from, to string) error {
	graph := map[string][]string{}
	for _, s := range uc.Scenarios {
		for _, ref := range s.References {
			if ref.RefType == RefScenario {
				graph[s.ID] = append(graph[s.ID], ref.TargetID)
			}
		}
	}
	// Adding from->to creates a cycle iff `to` can already reach `from`.
	if canReach(graph, to, from) {
		return apperr.ReferenceIntegrity("adding reference from %s to %s would create a circular dependency", from, to)
	}
	return nil
}

func canReach(graph map[string][]string, start, target string) bool {
	visited := map[string]bool{}
	stack := []string{start}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if cur == target {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, graph[cur]...)
	}
	return false
}

// Touch updates UpdatedAt to now.
func (uc *UseCase) Touch() { uc.Metadata.UpdatedAt = nowUTC() }

// CleanOrphanedMethodologyFields removes MethodologyFields entries whose key
// is not the methodology of any enabled view. Returns the removed
// methodology names.
func (uc *UseCase) CleanOrphanedMethodologyFields() []string {
	active := map[string]bool{}
	for _, v := range uc.EnabledViews() {
		active[v.Methodology] = true
	}
	var removed []string
	for m := range uc.MethodologyFields {
		if !active[m] {
			removed = append(removed, m)
		}
	}
	for _, m := range removed {
		delete(uc.MethodologyFields, m)
	}
	return removed
}
