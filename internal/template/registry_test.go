package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadOverview_WorkspaceTakesPrecedenceOverSource(t *testing.T) {
	workspace := t.TempDir()
	source := t.TempDir()
	writeFile(t, source, "overview.tmpl", "source: {{.Name}}")
	writeFile(t, workspace, "overview.tmpl", "workspace: {{.Name}}")

	r := NewRegistry()
	r.LoadOverview(workspace, source)

	out, err := r.Render("overview", map[string]any{"Name": "demo"})
	require.NoError(t, err)
	assert.Equal(t, "workspace: demo", out)
}

func TestLoadMethodologyLevel_AliasesResolve(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "methodologies/feature/level_normal.tmpl", "## {{.Title}}")

	r := NewRegistry()
	r.LoadMethodologyLevel("", source, "feature", "normal", "level_normal.tmpl")

	for _, key := range []string{"feature-normal", "feature-simple", "feature-n", "feature-s"} {
		out, err := r.Render(key, map[string]any{"Title": "Login"})
		require.NoError(t, err, key)
		assert.Equal(t, "## Login", out)
	}

	_, err := r.Render("feature-advanced", nil)
	assert.Error(t, err)
}

func TestRender_MissingTemplateIsTemplateMissing(t *testing.T) {
	r := NewRegistry()
	_, err := r.Render("overview", nil)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindTemplateMissing, appErr.Kind)
}

func TestLoadLanguageTest(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "languages/go/test.tmpl", "package {{.Package}}")

	r := NewRegistry()
	ok := r.LoadLanguageTest("", source, "go")
	require.True(t, ok)

	out, err := r.Render(LanguageTestKey("go"), map[string]any{"Package": "auth"})
	require.NoError(t, err)
	assert.Equal(t, "package auth", out)

	assert.False(t, r.LoadLanguageTest("", source, "rust"))
}
