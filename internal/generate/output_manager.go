package generate

import (
	"path/filepath"
	"sort"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/stringutil"
)

// testExtensions maps a configured test_language to its source file
// extension. Extend as new languages' templates ship.
var testExtensions = map[string]string{
	"go":         "go",
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"rust":       "rs",
	"java":       "java",
}

// TestExtension returns the file extension for language, defaulting to "txt"
// for an unrecognised language rather than erroring — test generation itself
// fails loudly if no template is registered for it.
func TestExtension(language string) string {
	if ext, ok := testExtensions[language]; ok {
		return ext
	}
	return "txt"
}

// SupportedLanguages lists the test languages with a known extension
// mapping, sorted, for the CLI's `languages` command.
func SupportedLanguages() []string {
	out := make([]string, 0, len(testExtensions))
	for lang := range testExtensions {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// OutputManager computes the on-disk names of generated files per spec
// §4.8, without performing any I/O itself.
type OutputManager struct {
	useCaseDir   string
	testDir      string
	testLanguage string
}

// NewOutputManager builds an OutputManager from a project's configured
// directories and test language.
func NewOutputManager(useCaseDir, testDir, testLanguage string) *OutputManager {
	return &OutputManager{useCaseDir: useCaseDir, testDir: testDir, testLanguage: testLanguage}
}

// ViewFile names one generated Markdown file for one enabled view.
type ViewFile struct {
	View     domain.MethodologyView
	Suffix   string // "" for a single-view use case, "<methodology>-<level>" otherwise
	Filename string
}

// MarkdownFiles returns one ViewFile per enabled view of uc, applying the
// single-view/multi-view filename rule (spec §4.8). Disabled views are never
// emitted.
func MarkdownFiles(uc *domain.UseCase) []ViewFile {
	enabled := uc.EnabledViews()
	if len(enabled) <= 1 {
		suffix := ""
		filename := uc.ID + ".md"
		var view domain.MethodologyView
		if len(enabled) == 1 {
			view = enabled[0]
		}
		return []ViewFile{{View: view, Suffix: suffix, Filename: filename}}
	}

	files := make([]ViewFile, 0, len(enabled))
	for _, v := range enabled {
		suffix := v.Methodology + "-" + v.Level
		files = append(files, ViewFile{
			View:     v,
			Suffix:   suffix,
			Filename: uc.ID + "-" + suffix + ".md",
		})
	}
	return files
}

// TestPath returns the full path of the generated test file for uc, under
// <test_dir>/<category_snake>/<to_snake_case(id)>.<ext>.
func (m *OutputManager) TestPath(uc *domain.UseCase) string {
	name := stringutil.ToSnakeCase(uc.ID) + "." + TestExtension(m.testLanguage)
	return filepath.Join(m.testDir, stringutil.ToSnakeCase(uc.Category), name)
}

// OverviewPath returns the path of the generated project overview, a
// README.md under the use case directory root.
func (m *OutputManager) OverviewPath() string {
	return filepath.Join(m.useCaseDir, "README.md")
}
