package generate

import (
	"context"
	"log/slog"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	tmpl "github.com/Guillaumecoi/usecasemgr/internal/template"
)

// MarkdownGenerator renders every enabled view of a use case and persists
// the result through the repository's SaveMarkdown (spec §4.7/§4.8).
type MarkdownGenerator struct {
	registry *tmpl.Registry
	repo     domain.UseCaseRepository
}

// NewMarkdownGenerator builds a MarkdownGenerator over a template registry
// and the active repository.
func NewMarkdownGenerator(registry *tmpl.Registry, repo domain.UseCaseRepository) *MarkdownGenerator {
	return &MarkdownGenerator{registry: registry, repo: repo}
}

// Generate renders and persists one Markdown file per enabled view of uc.
func (g *MarkdownGenerator) Generate(ctx context.Context, uc *domain.UseCase) error {
	if len(uc.EnabledViews()) == 0 {
		return apperr.Validation("use case %s has no enabled views to render", uc.ID)
	}

	data, err := RenderData(uc)
	if err != nil {
		return err
	}

	for _, file := range MarkdownFiles(uc) {
		key := tmpl.MethodologyLevelKey(file.View.Methodology, file.View.Level)
		content, err := g.registry.Render(key, data)
		if err != nil {
			return err
		}
		if err := g.repo.SaveMarkdown(ctx, uc.ID, file.Suffix, content); err != nil {
			return err
		}
		slog.Info("generated use case markdown", "id", uc.ID, "file", file.Filename)
	}
	return nil
}
