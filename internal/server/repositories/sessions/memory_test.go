package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/campuslink/internal/common"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	s, err := repo.Create(ctx, "u1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	found, err := repo.Find(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	require.NoError(t, repo.Delete(ctx, s.ID))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err = repo.Find(ctx, s.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_PrunesExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	old, err := repo.Create(ctx, "u1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	other, err := repo.Create(ctx, "u2", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = repo.Create(ctx, "u1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = repo.Find(ctx, old.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Find(ctx, other.ID)
	require.NoError(t, err, "other users' sessions are untouched")
}
