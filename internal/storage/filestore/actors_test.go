package filestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

func TestActorStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewActorStore(filepath.Join(t.TempDir(), "actors"))

	a, err := domain.NewActor("jane-the-planner", "Jane", domain.ActorTypePersona)
	require.NoError(t, err)
	a.Goals = []string{"ship fast"}

	require.NoError(t, s.Save(ctx, a))

	loaded, err := s.LoadByID(ctx, "jane-the-planner")
	require.NoError(t, err)
	assert.Equal(t, "Jane", loaded.Name)
	assert.Equal(t, []string{"ship fast"}, loaded.Goals)
}

func TestActorStore_DeleteNonExistentIsNotError(t *testing.T) {
	s := NewActorStore(t.TempDir())
	assert.NoError(t, s.Delete(context.Background(), "ghost"))
}

func TestActorStore_NotFoundHasSuggestions(t *testing.T) {
	ctx := context.Background()
	s := NewActorStore(t.TempDir())
	a, err := domain.NewActor("jane-the-planner", "Jane", domain.ActorTypePersona)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, a))

	_, err = s.LoadByID(ctx, "jane-the-plannr")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Contains(t, appErr.Suggestions, "jane-the-planner")
}
