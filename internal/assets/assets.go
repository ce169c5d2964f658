// Package assets embeds the default template set shipped with the binary
// and exposes it as a config.TemplateSource, with an on-disk override via
// PROJECT_MANIFEST_DIR for installations that keep their own template
// checkout (spec §6's "lookup hint for source templates").
package assets

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

//go:embed templates
var embedded embed.FS

const manifestDirEnv = "PROJECT_MANIFEST_DIR"

// Source implements config.TemplateSource. A non-empty manifestDir (from
// PROJECT_MANIFEST_DIR) is tried first, falling back to the binary's
// embedded defaults.
type Source struct {
	manifestDir string
}

// NewSource builds a Source reading PROJECT_MANIFEST_DIR from the
// environment.
func NewSource() *Source {
	return &Source{manifestDir: os.Getenv(manifestDirEnv)}
}

func (s *Source) read(relPath string) ([]byte, error) {
	if s.manifestDir != "" {
		b, err := os.ReadFile(filepath.Join(s.manifestDir, relPath))
		if err == nil {
			return b, nil
		}
	}
	b, err := embedded.ReadFile(filepath.Join("templates", relPath))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTemplateMissing, "no source template for "+relPath, err)
	}
	return b, nil
}

// OverviewTemplate returns overview.tmpl's contents.
func (s *Source) OverviewTemplate() ([]byte, error) {
	return s.read("overview.tmpl")
}

// MethodologyFiles returns every file under methodologies/<methodology>/.
func (s *Source) MethodologyFiles(methodology string) (map[string][]byte, error) {
	dir := filepath.Join("methodologies", methodology)

	var entries []os.DirEntry
	if s.manifestDir != "" {
		if e, err := os.ReadDir(filepath.Join(s.manifestDir, dir)); err == nil {
			entries = e
		}
	}
	if entries == nil {
		e, err := embedded.ReadDir(filepath.Join("templates", dir))
		if err != nil {
			return nil, apperr.Wrap(apperr.KindTemplateMissing, "no templates for methodology "+methodology, err)
		}
		entries = e
	}

	files := map[string][]byte{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := s.read(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files[entry.Name()] = content
	}
	return files, nil
}

// LanguageTestTemplate returns languages/<language>/test.tmpl's contents.
func (s *Source) LanguageTestTemplate(language string) ([]byte, error) {
	return s.read(filepath.Join("languages", language, "test.tmpl"))
}
