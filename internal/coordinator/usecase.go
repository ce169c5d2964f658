package coordinator

import (
	"context"
	"log/slog"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
)

// CreateUseCaseWithViews parses viewsString, computes the methodology
// custom-field set across all named views, assigns an id, persists the
// source record, and generates every enabled view's Markdown plus (if
// enabled) the test stub, finishing with an overview regeneration (spec
// §4.9).
func (c *UseCaseCoordinator) CreateUseCaseWithViews(ctx context.Context, title, category, description, viewsString string, userFields map[string]map[string]string) (*domain.UseCase, error) {
	views, err := parseViews(viewsString)
	if err != nil {
		return nil, err
	}

	methodologyFields, warnings, err := c.resolveMethodologyFields(views, userFields)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("methodology field dropped", "reason", w)
	}

	id, err := assignID(ctx, c.repo, category)
	if err != nil {
		return nil, err
	}

	uc, err := domain.NewUseCase(id, title, category, description, domain.PriorityMedium, views)
	if err != nil {
		return nil, err
	}
	uc.MethodologyFields = methodologyFields

	if err := c.repo.Save(ctx, uc); err != nil {
		return nil, err
	}

	if err := c.generateAll(ctx, uc); err != nil {
		return nil, err
	}

	return uc, nil
}

// resolveMethodologyFields collects the field set across views via F/G/H and
// applies userFields (methodology name -> field name -> raw string) to
// produce the per-methodology MethodologyFields map.
func (c *UseCaseCoordinator) resolveMethodologyFields(views []domain.MethodologyView, userFields map[string]map[string]string) (map[string]map[string]any, []string, error) {
	pairs := viewsAsMethodologyViews(views)
	result, err := methodology.Collect(c.methodologies, pairs)
	if err != nil {
		return nil, nil, err
	}

	out := map[string]map[string]any{}
	for _, m := range distinctMethodologies(views) {
		out[m] = methodology.ApplyUserValues(result.Fields, m, userFields[m])
	}
	return out, result.Warnings, nil
}

// generateAll renders every enabled view's Markdown, the test stub if
// configured, and regenerates the overview — the sequence every mutating
// operation that touches output runs (spec §5: save happens-before
// generation).
func (c *UseCaseCoordinator) generateAll(ctx context.Context, uc *domain.UseCase) error {
	if err := c.markdown.Generate(ctx, uc); err != nil {
		return err
	}
	if c.config.Generation.AutoGenerateTests {
		if err := c.tests.Generate(uc); err != nil {
			return err
		}
	}
	return c.overview.Generate(ctx)
}

// RegenerateMarkdown recomputes every enabled view of id and overwrites its
// Markdown.
func (c *UseCaseCoordinator) RegenerateMarkdown(ctx context.Context, id string) error {
	uc, err := c.repo.LoadByID(ctx, id)
	if err != nil {
		return err
	}
	return c.markdown.Generate(ctx, uc)
}

// RegenerateAllMarkdown recomputes every enabled view of every use case and
// regenerates the overview.
func (c *UseCaseCoordinator) RegenerateAllMarkdown(ctx context.Context) error {
	all, err := c.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, uc := range all {
		if len(uc.EnabledViews()) == 0 {
			continue
		}
		if err := c.markdown.Generate(ctx, uc); err != nil {
			return err
		}
	}
	return c.overview.Generate(ctx)
}

// RegenerateUseCaseWithMethodology validates that methodology exists, then
// regenerates all enabled views of id (spec §4.9).
func (c *UseCaseCoordinator) RegenerateUseCaseWithMethodology(ctx context.Context, id, methodologyName string) error {
	if _, err := c.methodologies.Get(methodologyName); err != nil {
		return err
	}
	return c.RegenerateMarkdown(ctx, id)
}

// CleanupDetail names one use case's removed orphaned methodology fields.
type CleanupDetail struct {
	ID                  string
	RemovedMethodologies []string
}

// CleanupMethodologyFields removes methodology_fields entries whose key is
// no longer the methodology of any enabled view, across one use case (when
// id is non-nil) or every use case. dryRun computes the same result without
// persisting any change (spec §4.9).
func (c *UseCaseCoordinator) CleanupMethodologyFields(ctx context.Context, id *string, dryRun bool) (cleanedCount, totalChecked int, details []CleanupDetail, err error) {
	var targets []*domain.UseCase
	if id != nil {
		uc, loadErr := c.repo.LoadByID(ctx, *id)
		if loadErr != nil {
			return 0, 0, nil, loadErr
		}
		targets = []*domain.UseCase{uc}
	} else {
		targets, err = c.repo.LoadAll(ctx)
		if err != nil {
			return 0, 0, nil, err
		}
	}

	for _, uc := range targets {
		totalChecked++
		removed := orphanedMethodologyFields(uc)
		if len(removed) == 0 {
			continue
		}
		cleanedCount++
		details = append(details, CleanupDetail{ID: uc.ID, RemovedMethodologies: removed})

		if !dryRun {
			uc.CleanOrphanedMethodologyFields()
			if err := c.repo.Save(ctx, uc); err != nil {
				return cleanedCount, totalChecked, details, err
			}
		}
	}
	return cleanedCount, totalChecked, details, nil
}

// orphanedMethodologyFields reports which MethodologyFields keys would be
// removed by uc.CleanOrphanedMethodologyFields, without mutating uc (so a
// dry run can report without side effects).
func orphanedMethodologyFields(uc *domain.UseCase) []string {
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
	return removed
}

// EditUseCase mutates the named fields of id (nil pointers leave the
// corresponding field unchanged), persists, and regenerates its Markdown.
// Supplemented from original_source's edit_use_case (spec.md's Non-goals
// never excludes it).
func (c *UseCaseCoordinator) EditUseCase(ctx context.Context, id string, title, description, category *string, priority *domain.Priority) (*domain.UseCase, error) {
	uc, err := c.repo.LoadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		uc.Title = *title
	}
	if description != nil {
		uc.Description = *description
	}
	if category != nil {
		uc.Category = *category
	}
	if priority != nil {
		uc.Priority = *priority
	}
	if err := uc.Validate(); err != nil {
		return nil, err
	}

	if err := c.repo.Save(ctx, uc); err != nil {
		return nil, err
	}
	if len(uc.EnabledViews()) > 0 {
		if err := c.markdown.Generate(ctx, uc); err != nil {
			return nil, err
		}
	}
	return uc, nil
}

// DuplicateUseCase clones sourceID into a fresh id, optionally in a
// different category, carrying over title (suffixed), description,
// priority, views, and methodology fields, but not scenarios (a duplicate
// is a new specification to be elaborated from scratch). Supplemented from
// original_source's duplicate_use_case.
func (c *UseCaseCoordinator) DuplicateUseCase(ctx context.Context, sourceID string, newCategory string) (*domain.UseCase, error) {
	source, err := c.repo.LoadByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	category := newCategory
	if category == "" {
		category = source.Category
	}

	id, err := assignID(ctx, c.repo, category)
	if err != nil {
		return nil, err
	}

	clone, err := domain.NewUseCase(id, source.Title+" (copy)", category, source.Description, source.Priority, append([]domain.MethodologyView(nil), source.Views...))
	if err != nil {
		return nil, err
	}
	for m, fields := range source.MethodologyFields {
		cloned := map[string]any{}
		for k, v := range fields {
			cloned[k] = v
		}
		clone.MethodologyFields[m] = cloned
	}

	if err := c.repo.Save(ctx, clone); err != nil {
		return nil, err
	}
	if err := c.generateAll(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}
