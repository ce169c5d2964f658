package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

func newUseCase(t *testing.T, views []domain.MethodologyView) *domain.UseCase {
	t.Helper()
	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, views)
	require.NoError(t, err)
	return uc
}

func TestMarkdownFiles_SingleEnabledView(t *testing.T) {
	uc := newUseCase(t, []domain.MethodologyView{{Methodology: "feature", Level: "normal", Enabled: true}})
	files := MarkdownFiles(uc)
	require.Len(t, files, 1)
	assert.Equal(t, "UC-AUT-001.md", files[0].Filename)
	assert.Equal(t, "", files[0].Suffix)
}

func TestMarkdownFiles_ZeroEnabledViews(t *testing.T) {
	uc := newUseCase(t, []domain.MethodologyView{{Methodology: "feature", Level: "normal", Enabled: false}})
	files := MarkdownFiles(uc)
	require.Len(t, files, 1)
	assert.Equal(t, "UC-AUT-001.md", files[0].Filename)
}

func TestMarkdownFiles_MultiEnabledViews(t *testing.T) {
	uc := newUseCase(t, []domain.MethodologyView{
		{Methodology: "feature", Level: "normal", Enabled: true},
		{Methodology: "bdd", Level: "advanced", Enabled: true},
		{Methodology: "tdd", Level: "normal", Enabled: false},
	})
	files := MarkdownFiles(uc)
	require.Len(t, files, 2)
	assert.Equal(t, "UC-AUT-001-feature-normal.md", files[0].Filename)
	assert.Equal(t, "UC-AUT-001-bdd-advanced.md", files[1].Filename)
}

func TestOutputManager_TestPath(t *testing.T) {
	om := NewOutputManager("docs/use-cases", "tests/use-cases", "go")
	uc := newUseCase(t, nil)
	assert.Equal(t, "tests/use-cases/auth/uc_aut_001.go", om.TestPath(uc))
}

func TestOutputManager_OverviewPath(t *testing.T) {
	om := NewOutputManager("docs/use-cases", "tests/use-cases", "go")
	assert.Equal(t, "docs/use-cases/README.md", om.OverviewPath())
}
