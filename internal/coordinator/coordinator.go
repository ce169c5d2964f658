// Package coordinator implements UseCaseCoordinator, the transactional
// façade over the domain model, methodology registry, template engine, and
// generators (spec §4.9's component K).
package coordinator

import (
	"github.com/Guillaumecoi/usecasemgr/internal/config"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/generate"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
	"github.com/Guillaumecoi/usecasemgr/internal/storage"
	tmpl "github.com/Guillaumecoi/usecasemgr/internal/template"
)

// UseCaseCoordinator is the single entry point CLI commands call through.
// It owns no state of its own beyond references to its collaborators; every
// operation loads what it needs from the repository, mutates in memory via
// the domain package, and persists before regenerating any output.
type UseCaseCoordinator struct {
	repo         domain.UseCaseRepository
	actors       domain.ActorRepository
	methodologies *methodology.Registry
	config       *config.ProjectConfig

	markdown *generate.MarkdownGenerator
	tests    *generate.TestGenerator
	overview *generate.OverviewGenerator
	output   *generate.OutputManager
}

// New builds a coordinator from its wired collaborators. templates must
// already be loaded (methodology levels, overview, language test).
func New(repos *storage.Repositories, methodologies *methodology.Registry, templates *tmpl.Registry, cfg *config.ProjectConfig) *UseCaseCoordinator {
	output := generate.NewOutputManager(cfg.Directories.UseCaseDir, cfg.Directories.TestDir, cfg.Generation.TestLanguage)
	return &UseCaseCoordinator{
		repo:          repos.UseCases,
		actors:        repos.Actors,
		methodologies: methodologies,
		config:        cfg,
		markdown:      generate.NewMarkdownGenerator(templates, repos.UseCases),
		tests:         generate.NewTestGenerator(templates, output, cfg.Generation.TestLanguage, cfg.Generation.OverwriteTestDocumentation),
		overview:      generate.NewOverviewGenerator(templates, output, repos.UseCases, cfg.Project.Name),
		output:        output,
	}
}

// BuildTemplateRegistry discovers and parses every template a project's
// descriptor names: the overview, every level of every registered
// methodology (with alias keys), and the configured test language. Lookup
// precedence is workspace first, source directory second (spec §4.7).
func BuildTemplateRegistry(workspaceDir, sourceDir string, methodologies *methodology.Registry, testLanguage string) *tmpl.Registry {
	r := tmpl.NewRegistry()
	r.LoadOverview(workspaceDir, sourceDir)
	for _, m := range methodologies.List() {
		for levelName, level := range m.Levels {
			filename := level.Filename
			if filename == "" {
				filename = "level_" + levelName + ".tmpl"
			}
			r.LoadMethodologyLevel(workspaceDir, sourceDir, m.Name, levelName, filename)
		}
	}
	r.LoadLanguageTest(workspaceDir, sourceDir, testLanguage)
	return r
}
