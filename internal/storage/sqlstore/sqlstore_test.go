package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	s, err := Open(filepath.Join(root, "usecasemgr.db"), filepath.Join(root, "docs"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)
	uc.AddPrecondition("user exists")
	require.NoError(t, uc.AddScenario(*domain.NewScenario("UC-AUT-001-S01", "Happy path", "d", domain.ScenarioHappyPath)))

	require.NoError(t, s.Save(ctx, uc))

	loaded, err := s.LoadByID(ctx, "UC-AUT-001")
	require.NoError(t, err)
	assert.Equal(t, uc.Title, loaded.Title)
	assert.Equal(t, []string{"user exists"}, loaded.Preconditions)
	require.Len(t, loaded.Scenarios, 1)
	assert.Equal(t, "UC-AUT-001-S01", loaded.Scenarios[0].ID)
}

func TestDeleteCascadesChildren(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)
	require.NoError(t, uc.AddScenario(*domain.NewScenario("UC-AUT-001-S01", "Happy path", "d", domain.ScenarioHappyPath)))
	require.NoError(t, s.Save(ctx, uc))

	require.NoError(t, s.Delete(ctx, "UC-AUT-001"))

	_, err = s.LoadByID(ctx, "UC-AUT-001")
	require.Error(t, err)

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scenarios WHERE use_case_id = ?", "UC-AUT-001").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)

	err = s.WithTransaction(ctx, func(tx domain.UseCaseRepository) error {
		require.NoError(t, tx.Save(ctx, uc))
		return assert.AnError
	})
	require.Error(t, err)

	exists, err := s.Exists(ctx, "UC-AUT-001")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadAllEmptyStoreReturnsEmptySlice(t *testing.T) {
	s := newStore(t)
	all, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
