// Package template renders Markdown and source-code output from a single
// data tree, using the standard library's text/template rather than
// html/template — output is Markdown/source and must never be
// HTML-escaped (spec §4.7).
package template

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

// levelAliases lists, for each canonical level name, every alias key suffix
// that must also resolve to the same template (spec §4.7, §9 — aliases are
// a lookup-time convenience, never a persisted name).
var levelAliases = map[string][]string{
	"normal":   {"normal", "n", "simple", "s"},
	"advanced": {"advanced", "a", "detailed", "d"},
}

// Registry holds parsed templates keyed by "overview",
// "<methodology>-<level-or-alias>", and "<language>_test". Built once at
// process start and treated as immutable afterward (spec §5).
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string]*template.Template{}}
}

// resolveSource finds relPath under workspaceDir first, then sourceDir
// (spec §4.7's precedence rule), returning its contents.
func resolveSource(workspaceDir, sourceDir, relPath string) ([]byte, error) {
	for _, base := range []string{workspaceDir, sourceDir} {
		if base == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(base, relPath))
		if err == nil {
			return data, nil
		}
	}
	return nil, os.ErrNotExist
}

func (r *Registry) register(key string, content []byte) error {
	tmpl, err := template.New(key).Parse(string(content))
	if err != nil {
		return apperr.Wrap(apperr.KindTemplateMissing, "parsing template "+key, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[key] = tmpl
	return nil
}

// LoadOverview loads overview.tmpl under the "overview" key. Its absence is
// not fatal at load time, only at render time (spec §4.7).
func (r *Registry) LoadOverview(workspaceDir, sourceDir string) {
	if content, err := resolveSource(workspaceDir, sourceDir, "overview.tmpl"); err == nil {
		r.register("overview", content)
	}
}

// LoadMethodologyLevel loads methodologies/<methodology>/<filename> and
// registers it under "<methodology>-<level>" plus every alias of level.
func (r *Registry) LoadMethodologyLevel(workspaceDir, sourceDir, methodology, level, filename string) {
	relPath := filepath.Join("methodologies", methodology, filename)
	content, err := resolveSource(workspaceDir, sourceDir, relPath)
	if err != nil {
		return
	}
	for _, alias := range levelAliases[level] {
		r.register(methodology+"-"+alias, content)
	}
	// Always also register under the literal level name given, even if it
	// is not one of the two canonical levels (methodologies may define
	// arbitrary level names beyond normal/advanced).
	r.register(methodology+"-"+level, content)
}

// LoadLanguageTest loads languages/<language>/test.tmpl under
// "<language>_test". Missing language templates are a finalize-time
// warning (spec §6), not a registry failure.
func (r *Registry) LoadLanguageTest(workspaceDir, sourceDir, language string) bool {
	content, err := resolveSource(workspaceDir, sourceDir, filepath.Join("languages", language, "test.tmpl"))
	if err != nil {
		return false
	}
	return r.register(language+"_test", content) == nil
}

// MethodologyLevelKey builds the template lookup key for a (methodology,
// level) view. It only lowercases level; alias levels (e.g. "simple") still
// resolve because LoadMethodologyLevel registers a key for every alias.
func MethodologyLevelKey(methodology, level string) string {
	return methodology + "-" + strings.ToLower(level)
}

// LanguageTestKey builds the template lookup key for a language's test
// template.
func LanguageTestKey(language string) string {
	return language + "_test"
}

// Render executes the template registered under key against data. Rendering
// never HTML-escapes (text/template).
func (r *Registry) Render(key string, data map[string]any) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[key]
	r.mu.RUnlock()
	if !ok {
		return "", apperr.TemplateMissing("no template registered for %q", key)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", apperr.Wrap(apperr.KindTemplateMissing, "rendering template "+key, err)
	}
	return buf.String(), nil
}

// Has reports whether a template is registered under key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[key]
	return ok
}
