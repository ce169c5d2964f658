package methodology

import (
	"strings"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// NormalizeLevel maps legacy level identifiers to their canonical name. The
// canonical name is never persisted as an alias — callers must normalize at
// the input boundary and store only the result (spec §4.5, §9).
func NormalizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "simple", "s":
		return "normal"
	case "detailed", "d":
		return "advanced"
	case "normal", "n":
		return "normal"
	case "advanced", "a":
		return "advanced"
	default:
		return level
	}
}

// ResolvedField is one entry in a resolved field set: the effective
// definition after inheritance override. It does not record which level
// contributed the definition.
type ResolvedField struct {
	Name string
	FieldDef
}

// ResolveFieldsForLevel computes the inherited custom-field set for
// (m, targetLevel): a DFS walk of the inheritance chain (parents before
// target), overlaying each level's custom_fields so a child's declaration of
// a name overrides its parent's.
func ResolveFieldsForLevel(m *Methodology, targetLevel string) (map[string]ResolvedField, error) {
	canonical := NormalizeLevel(targetLevel)
	chain, err := inheritanceChain(m, canonical)
	if err != nil {
		return nil, err
	}

	fields := map[string]ResolvedField{}
	for _, levelName := range chain {
		level := m.Levels[levelName]
		for name, def := range level.CustomFields {
			fields[name] = ResolvedField{Name: name, FieldDef: def}
		}
	}
	return fields, nil
}

// inheritanceChain returns parents-before-target, deduplicated, via DFS over
// `inherits`, detecting cycles and missing parents.
func inheritanceChain(m *Methodology, targetLevel string) ([]string, error) {
	var chain []string
	visiting := map[string]bool{}
	visited := map[string]bool{}

	var visit func(level string) error
	visit = func(level string) error {
		if visited[level] {
			return nil
		}
		if visiting[level] {
			return apperr.Validation("circular inheritance detected at level %q in methodology %q", level, m.Name)
		}
		lvl, ok := m.Levels[level]
		if !ok {
			return apperr.Validation("level %q not found in methodology %q", level, m.Name)
		}
		visiting[level] = true
		for _, parent := range lvl.Inherits {
			parentCanonical := NormalizeLevel(parent)
			if _, ok := m.Levels[parentCanonical]; !ok {
				return apperr.Validation("methodology %q level %q inherits missing level %q", m.Name, level, parent)
			}
			if err := visit(parentCanonical); err != nil {
				return err
			}
		}
		visiting[level] = false
		visited[level] = true
		chain = append(chain, level)
		return nil
	}

	if err := visit(targetLevel); err != nil {
		return nil, err
	}
	return chain, nil
}

// CollectFieldsForMethodology validates that no field name is declared more
// than once across the (non-deduplicated) levels of targetLevel's
// inheritance chain, before override resolution is applied. This is a hard
// error even though the override pass would otherwise tolerate the
// redefinition: it exists to surface accidental name collisions within one
// methodology (spec §4.5).
func CollectFieldsForMethodology(m *Methodology, targetLevel string) error {
	canonical := NormalizeLevel(targetLevel)
	chain, err := inheritanceChain(m, canonical)
	if err != nil {
		return err
	}

	seenAt := map[string]string{}
	for _, levelName := range chain {
		for name := range m.Levels[levelName].CustomFields {
			if prevLevel, ok := seenAt[name]; ok {
				return apperr.Validation(
					"field %q is declared at both level %q and %q in methodology %q's inheritance chain",
					name, prevLevel, levelName, m.Name)
			}
			seenAt[name] = levelName
		}
	}
	return nil
}
