package filestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

var errTest = errors.New("injected test failure")

func newStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return New(filepath.Join(root, "data"), filepath.Join(root, "docs"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, uc))

	loaded, err := s.LoadByID(ctx, "UC-AUT-001")
	require.NoError(t, err)
	assert.Equal(t, uc.Title, loaded.Title)
	assert.Equal(t, uc.Metadata.CreatedAt, loaded.Metadata.CreatedAt)
}

func TestSavePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, uc))
	firstCreated := uc.Metadata.CreatedAt

	uc.Title = "Login v2"
	require.NoError(t, s.Save(ctx, uc))

	loaded, err := s.LoadByID(ctx, "UC-AUT-001")
	require.NoError(t, err)
	assert.Equal(t, firstCreated, loaded.Metadata.CreatedAt)
	assert.Equal(t, "Login v2", loaded.Title)
}

func TestDeleteNonExistentIsNotError(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Delete(context.Background(), "UC-XXX-999"))
}

func TestLoadAllEmptyStoreReturnsEmptySlice(t *testing.T) {
	s := newStore(t)
	all, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)

	txErr := errTest
	err = s.WithTransaction(ctx, func(tx domain.UseCaseRepository) error {
		require.NoError(t, tx.Save(ctx, uc))
		return txErr
	})
	require.ErrorIs(t, err, txErr)

	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	uc, err := domain.NewUseCase("UC-AUT-001", "Login", "auth", "desc", domain.PriorityHigh, nil)
	require.NoError(t, err)

	err = s.WithTransaction(ctx, func(tx domain.UseCaseRepository) error {
		return tx.Save(ctx, uc)
	})
	require.NoError(t, err)

	loaded, err := s.LoadByID(ctx, "UC-AUT-001")
	require.NoError(t, err)
	assert.Equal(t, "Login", loaded.Title)
}
