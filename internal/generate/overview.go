package generate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	tmpl "github.com/Guillaumecoi/usecasemgr/internal/template"
)

// OverviewGenerator renders the project's use case index (README.md) from
// every persisted use case (spec §4.7's "overview" keyspace).
type OverviewGenerator struct {
	registry    *tmpl.Registry
	output      *OutputManager
	repo        domain.UseCaseRepository
	projectName string
}

// NewOverviewGenerator builds an OverviewGenerator.
func NewOverviewGenerator(registry *tmpl.Registry, output *OutputManager, repo domain.UseCaseRepository, projectName string) *OverviewGenerator {
	return &OverviewGenerator{registry: registry, output: output, repo: repo, projectName: projectName}
}

// Generate loads every use case, renders the overview template, and writes
// it to the use case directory root.
func (g *OverviewGenerator) Generate(ctx context.Context) error {
	useCases, err := g.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	data, err := OverviewData(g.projectName, useCases)
	if err != nil {
		return err
	}

	content, err := g.registry.Render("overview", data)
	if err != nil {
		return err
	}

	path := g.output.OverviewPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.StorageFailure("creating use case directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.StorageFailure("writing overview", err)
	}
	slog.Info("regenerated overview", "path", path, "count", len(useCases))
	return nil
}
