package domain

import (
	"testing"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase(t *testing.T) *UseCase {
	t.Helper()
	uc, err := NewUseCase("UC-TES-001", "Test", "testing", "desc", PriorityMedium, nil)
	require.NoError(t, err)
	return uc
}

func TestScenarioCycleDetection(t *testing.T) {
	uc := newTestUseCase(t)
	require.NoError(t, uc.AddScenario(*NewScenario("UC-TES-001-S01", "S1", "d", ScenarioHappyPath)))
	require.NoError(t, uc.AddScenario(*NewScenario("UC-TES-001-S02", "S2", "d", ScenarioHappyPath)))
	require.NoError(t, uc.AddScenario(*NewScenario("UC-TES-001-S03", "S3", "d", ScenarioHappyPath)))

	require.NoError(t, uc.ValidateNoScenarioCycle("UC-TES-001-S01", "UC-TES-001-S02"))
	uc.FindScenario("UC-TES-001-S01").AddReference(ScenarioReference{
		RefType: RefScenario, TargetID: "UC-TES-001-S02", Relationship: "extension",
	})

	require.NoError(t, uc.ValidateNoScenarioCycle("UC-TES-001-S02", "UC-TES-001-S03"))
	uc.FindScenario("UC-TES-001-S02").AddReference(ScenarioReference{
		RefType: RefScenario, TargetID: "UC-TES-001-S03", Relationship: "extension",
	})

	err := uc.ValidateNoScenarioCycle("UC-TES-001-S03", "UC-TES-001-S01")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindReferenceIntegrity, appErr.Kind)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPlanned.CanTransitionTo(StatusInProgress))
	assert.True(t, StatusPlanned.CanTransitionTo(StatusDeprecated))
	assert.False(t, StatusInProgress.CanTransitionTo(StatusPlanned))
	assert.False(t, StatusDeprecated.CanTransitionTo(StatusPlanned))
	assert.True(t, StatusTested.CanTransitionTo(StatusDeployed))
	assert.False(t, StatusTested.CanTransitionTo(StatusTested))
}

func TestCleanupIdempotence(t *testing.T) {
	uc := newTestUseCase(t)
	uc.AddView(MethodologyView{Methodology: "feature", Level: "normal", Enabled: true})
	uc.MethodologyFields["feature"] = map[string]any{"a": "1"}
	uc.MethodologyFields["business"] = map[string]any{"note": "x"}

	removed := uc.CleanOrphanedMethodologyFields()
	assert.Equal(t, []string{"business"}, removed)
	assert.Len(t, uc.MethodologyFields, 1)

	removedAgain := uc.CleanOrphanedMethodologyFields()
	assert.Empty(t, removedAgain)
}

func TestDeleteScenarioForbiddenWhenReferenced(t *testing.T) {
	uc := newTestUseCase(t)
	require.NoError(t, uc.AddScenario(*NewScenario("UC-TES-001-S01", "S1", "d", ScenarioHappyPath)))
	require.NoError(t, uc.AddScenario(*NewScenario("UC-TES-001-S02", "S2", "d", ScenarioHappyPath)))
	uc.FindScenario("UC-TES-001-S01").AddReference(ScenarioReference{
		RefType: RefScenario, TargetID: "UC-TES-001-S02", Relationship: "extension",
	})

	err := uc.DeleteScenario("UC-TES-001-S02")
	require.Error(t, err)

	require.NoError(t, uc.DeleteScenario("UC-TES-001-S01"))
	require.NoError(t, uc.DeleteScenario("UC-TES-001-S02"))
}
