package methodology

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// reservedFieldNames take precedence over any methodology-declared field
// with the same name; such fields are dropped with a warning (spec §4.6).
var reservedFieldNames = map[string]bool{
	"author":      true,
	"reviewer":    true,
	"description": true,
}

// CollectedField is one field in the merged set across a use case's views,
// tracking every methodology that declared it.
type CollectedField struct {
	Name          string
	Type          FieldType
	Label         string
	Required      bool
	Default       any
	Description   string
	Methodologies []string
	Level         string
}

// View is a (methodology, level) pair as selected on a use case.
type View struct {
	Methodology string
	Level       string
}

// CollectResult is the outcome of merging fields across a use case's views.
type CollectResult struct {
	Fields   map[string]CollectedField
	Warnings []string // one per dropped reserved-name field
}

// Collect merges the resolved field sets of every view, dropping
// reserved-name fields (with a warning) and failing hard if two different
// methodologies declare the same field name.
func Collect(registry *Registry, views []View) (*CollectResult, error) {
	result := &CollectResult{Fields: map[string]CollectedField{}}

	for _, v := range views {
		m, err := registry.Get(v.Methodology)
		if err != nil {
			return nil, err
		}
		if err := CollectFieldsForMethodology(m, v.Level); err != nil {
			return nil, err
		}
		resolved, err := ResolveFieldsForLevel(m, v.Level)
		if err != nil {
			return nil, err
		}

		for name, field := range resolved {
			if reservedFieldNames[name] {
				result.Warnings = append(result.Warnings,
					"field \""+name+"\" from methodology \""+m.Name+"\" is reserved and was dropped")
				continue
			}

			existing, ok := result.Fields[name]
			if ok {
				alreadyFromThisMethodology := false
				for _, existingM := range existing.Methodologies {
					if existingM == m.Name {
						alreadyFromThisMethodology = true
					}
				}
				if !alreadyFromThisMethodology {
					return nil, apperr.FieldConflict(
						"field %q is declared by both methodology %q and %q; rename one of them",
						name, existing.Methodologies[0], m.Name)
				}
				continue
			}

			result.Fields[name] = CollectedField{
				Name:          name,
				Type:          field.Type,
				Label:         field.Label,
				Required:      field.Required,
				Default:       field.Default,
				Description:   field.Description,
				Methodologies: []string{m.Name},
				Level:         NormalizeLevel(v.Level),
			}
		}
	}

	sort.Slice(result.Warnings, func(i, j int) bool { return result.Warnings[i] < result.Warnings[j] })
	return result, nil
}

// CoerceValue converts a raw string input (as typed by a user at a prompt)
// into the typed value appropriate for fieldType, per spec §4.6's table.
func CoerceValue(fieldType FieldType, raw string) any {
	switch fieldType {
	case FieldArray:
		return splitArray(raw)
	case FieldNumber:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	case FieldBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "yes", "1":
			return true
		default:
			return false
		}
	default: // string, text
		return raw
	}
}

func splitArray(raw string) []string {
	raw = strings.ReplaceAll(raw, "\n", ",")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// emptyValue returns the type-appropriate zero value for a required field
// with no default and no user-supplied value.
func emptyValue(fieldType FieldType) any {
	switch fieldType {
	case FieldArray:
		return []string{}
	case FieldNumber:
		return 0
	case FieldBoolean:
		return false
	default:
		return ""
	}
}

// ApplyUserValues produces the final methodology_fields map for one
// methodology from the collected field set and a map of user-supplied raw
// string values (keyed by field name). Required fields the user omits use
// their declared default (a string default is coerced to the field type;
// other defaults are kept as decoded), or a type-appropriate empty value.
func ApplyUserValues(fields map[string]CollectedField, methodology string, userValues map[string]string) map[string]any {
	out := map[string]any{}
	for name, field := range fields {
		belongsHere := false
		for _, m := range field.Methodologies {
			if m == methodology {
				belongsHere = true
			}
		}
		if !belongsHere {
			continue
		}

		if raw, ok := userValues[name]; ok {
			out[name] = CoerceValue(field.Type, raw)
			continue
		}
		if field.Required {
			if s, ok := field.Default.(string); ok {
				out[name] = CoerceValue(field.Type, s)
			} else if field.Default != nil {
				out[name] = field.Default
			} else {
				out[name] = emptyValue(field.Type)
			}
		}
	}
	return out
}
