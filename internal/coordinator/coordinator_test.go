package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/config"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
	"github.com/Guillaumecoi/usecasemgr/internal/storage"
	"github.com/Guillaumecoi/usecasemgr/internal/storage/filestore"
	tmpl "github.com/Guillaumecoi/usecasemgr/internal/template"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestCoordinator(t *testing.T) (*UseCaseCoordinator, domain.UseCaseRepository) {
	t.Helper()
	root := t.TempDir()

	templatesSource := filepath.Join(root, "source-templates")
	writeFixture(t, filepath.Join(templatesSource, "methodologies", "feature", "info.toml"), "[methodology]\ntitle = \"Feature\"\n")
	writeFixture(t, filepath.Join(templatesSource, "methodologies", "feature", "config.toml"), `
[methodology]
name = "feature"
abbreviation = "feat"

[levels.normal]
name = "normal"
filename = "level_normal.tmpl"

[levels.normal.custom_fields.acceptance_criteria]
type = "array"
required = true
`)
	writeFixture(t, filepath.Join(templatesSource, "methodologies", "feature", "level_normal.tmpl"), "# {{.title}}\n{{.description}}\n")
	writeFixture(t, filepath.Join(templatesSource, "overview.tmpl"), "# {{.project_name}} ({{.total}} use cases)\n")
	writeFixture(t, filepath.Join(templatesSource, "languages", "go", "test.tmpl"), "package {{.category}}\n")

	methodologies := methodology.NewRegistry()
	require.NoError(t, methodologies.Load(filepath.Join(templatesSource, "methodologies")))

	cfg := config.Default("demo")
	cfg.Directories.UseCaseDir = filepath.Join(root, "docs", "use-cases")
	cfg.Directories.TestDir = filepath.Join(root, "tests", "use-cases")
	cfg.Generation.TestLanguage = "go"

	repos := &storage.Repositories{
		UseCases: filestore.New(filepath.Join(root, "data"), cfg.Directories.UseCaseDir),
		Actors:   filestore.NewActorStore(filepath.Join(root, "actors")),
	}

	templates := BuildTemplateRegistry("", templatesSource, methodologies, cfg.Generation.TestLanguage)
	require.True(t, templates.Has(tmpl.MethodologyLevelKey("feature", "normal")))
	require.True(t, templates.Has("overview"))

	return New(repos, methodologies, templates, cfg), repos.UseCases
}

func TestCreateUseCaseWithViews_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCoordinator(t)

	first, err := c.CreateUseCaseWithViews(ctx, "Login", "auth", "desc", "feature:normal",
		map[string]map[string]string{"feature": {"acceptance_criteria": "a, b"}})
	require.NoError(t, err)
	assert.Equal(t, "UC-AUT-001", first.ID)

	second, err := c.CreateUseCaseWithViews(ctx, "Logout", "auth", "desc", "feature:normal",
		map[string]map[string]string{"feature": {"acceptance_criteria": "c"}})
	require.NoError(t, err)
	assert.Equal(t, "UC-AUT-002", second.ID)
}

func TestCreateUseCaseWithViews_RejectsMalformedViews(t *testing.T) {
	c, _ := newTestCoordinator(t)
	_, err := c.CreateUseCaseWithViews(context.Background(), "Login", "auth", "desc", "feature", nil)
	assert.Error(t, err)
}

func TestAddScenarioReference_RejectsCycle(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestCoordinator(t)

	uc, err := c.CreateUseCaseWithViews(ctx, "Login", "auth", "desc", "feature:normal",
		map[string]map[string]string{"feature": {"acceptance_criteria": "a"}})
	require.NoError(t, err)

	require.NoError(t, c.AddScenario(ctx, uc.ID, *domain.NewScenario(uc.ID+"-S01", "Happy", "d", domain.ScenarioHappyPath)))
	require.NoError(t, c.AddScenario(ctx, uc.ID, *domain.NewScenario(uc.ID+"-S02", "Alt", "d", domain.ScenarioAlternativeFlow)))

	require.NoError(t, c.AddScenarioReference(ctx, uc.ID, uc.ID+"-S01", domain.ScenarioReference{
		RefType: domain.RefScenario, TargetID: uc.ID + "-S02", Relationship: domain.RelationshipDependency,
	}))

	err = c.AddScenarioReference(ctx, uc.ID, uc.ID+"-S02", domain.ScenarioReference{
		RefType: domain.RefScenario, TargetID: uc.ID + "-S01", Relationship: domain.RelationshipDependency,
	})
	require.Error(t, err)

	reloaded, err := repo.LoadByID(ctx, uc.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Scenarios[0].References, 1)
}

func TestCleanupMethodologyFields_DryRunDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestCoordinator(t)

	uc, err := c.CreateUseCaseWithViews(ctx, "Login", "auth", "desc", "feature:normal",
		map[string]map[string]string{"feature": {"acceptance_criteria": "a"}})
	require.NoError(t, err)

	uc.Views[0].Enabled = false
	require.NoError(t, repo.Save(ctx, uc))

	cleaned, checked, details, err := c.CleanupMethodologyFields(ctx, &uc.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)
	assert.Equal(t, 1, checked)
	require.Len(t, details, 1)
	assert.Equal(t, []string{"feature"}, details[0].RemovedMethodologies)

	reloaded, err := repo.LoadByID(ctx, uc.ID)
	require.NoError(t, err)
	assert.Contains(t, reloaded.MethodologyFields, "feature")

	_, _, _, err = c.CleanupMethodologyFields(ctx, &uc.ID, false)
	require.NoError(t, err)
	reloaded, err = repo.LoadByID(ctx, uc.ID)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.MethodologyFields, "feature")
}

func TestDuplicateUseCase_NewIDSameCategory(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCoordinator(t)

	uc, err := c.CreateUseCaseWithViews(ctx, "Login", "auth", "desc", "feature:normal",
		map[string]map[string]string{"feature": {"acceptance_criteria": "a"}})
	require.NoError(t, err)

	dup, err := c.DuplicateUseCase(ctx, uc.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "UC-AUT-002", dup.ID)
	assert.Equal(t, "Login (copy)", dup.Title)
}

func TestEditUseCase_UpdatesTitle(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCoordinator(t)

	uc, err := c.CreateUseCaseWithViews(ctx, "Login", "auth", "desc", "feature:normal",
		map[string]map[string]string{"feature": {"acceptance_criteria": "a"}})
	require.NoError(t, err)

	newTitle := "Sign In"
	edited, err := c.EditUseCase(ctx, uc.ID, &newTitle, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sign In", edited.Title)
}
