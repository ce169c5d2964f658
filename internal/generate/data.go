// Package generate renders use cases into Markdown and test source files
// (components J: MarkdownGenerator, TestGenerator, OverviewGenerator, and
// OutputManager — spec.md §4.7/§4.8).
package generate

import (
	"encoding/json"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

// RenderData converts uc into the map-of-value tree templates render
// against: a JSON round-trip of the struct with Extra merged at the top
// level (spec §4.7).
func RenderData(uc *domain.UseCase) (map[string]any, error) {
	raw, err := json.Marshal(uc)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTemplateMissing, "serialising use case for rendering", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, apperr.Wrap(apperr.KindTemplateMissing, "building render data tree", err)
	}
	for k, v := range uc.Extra {
		data[k] = v
	}
	return data, nil
}

// OverviewData builds the render data tree for the project overview: every
// use case's own tree, under the "use_cases" key, plus project metadata.
func OverviewData(projectName string, useCases []*domain.UseCase) (map[string]any, error) {
	entries := make([]map[string]any, 0, len(useCases))
	for _, uc := range useCases {
		d, err := RenderData(uc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, d)
	}
	return map[string]any{
		"project_name": projectName,
		"use_cases":    entries,
		"total":        len(entries),
	}, nil
}
