package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

func TestActorStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	actors := s.Actors()

	a, err := domain.NewActor("jane-the-planner", "Jane", domain.ActorTypePersona)
	require.NoError(t, err)
	a.Frustrations = []string{"slow builds"}

	require.NoError(t, actors.Save(ctx, a))

	loaded, err := actors.LoadByID(ctx, "jane-the-planner")
	require.NoError(t, err)
	assert.Equal(t, "Jane", loaded.Name)
	assert.Equal(t, []string{"slow builds"}, loaded.Frustrations)
}

func TestActorStore_DeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	actors := s.Actors()

	a, err := domain.NewActor("system-billing", "Billing System", domain.ActorTypeSystem)
	require.NoError(t, err)
	require.NoError(t, actors.Save(ctx, a))
	require.NoError(t, actors.Delete(ctx, a.ID))

	exists, err := actors.Exists(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
