package generate

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	tmpl "github.com/Guillaumecoi/usecasemgr/internal/template"
)

// TestGenerator renders and writes one generated test file per use case,
// directly to the filesystem (test files are not part of the repository
// contract — spec §4.8 places them under test_dir, not data_dir).
type TestGenerator struct {
	registry  *tmpl.Registry
	output    *OutputManager
	language  string
	overwrite bool
}

// NewTestGenerator builds a TestGenerator for the configured test language.
// overwrite mirrors config.Generation.OverwriteTestDocumentation.
func NewTestGenerator(registry *tmpl.Registry, output *OutputManager, language string, overwrite bool) *TestGenerator {
	return &TestGenerator{registry: registry, output: output, language: language, overwrite: overwrite}
}

// Generate renders the test template for uc and writes it to its computed
// path. If the file already exists and overwrite is false, generation is
// skipped (logged), not an error (spec §4.8).
func (g *TestGenerator) Generate(uc *domain.UseCase) error {
	path := g.output.TestPath(uc)

	if !g.overwrite {
		if _, err := os.Stat(path); err == nil {
			slog.Info("skipping test generation, file exists", "id", uc.ID, "path", path)
			return nil
		}
	}

	data, err := RenderData(uc)
	if err != nil {
		return err
	}
	content, err := g.registry.Render(tmpl.LanguageTestKey(g.language), data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.StorageFailure("creating test directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.StorageFailure("writing test file", err)
	}
	slog.Info("generated test file", "id", uc.ID, "path", path)
	return nil
}
