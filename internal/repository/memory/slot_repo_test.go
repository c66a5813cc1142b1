package memory

import (
	"context"
	"testing"

	"bestronggym/gym-desk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()

	_, err := repo.Get(ctx, "clients")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "clients", `[{"name":"Ana Ruiz"}]`))
	got, err := repo.Get(ctx, "clients")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Ana Ruiz"}]`, got)

	require.NoError(t, repo.Set(ctx, "clients", `[]`))
	got, err = repo.Get(ctx, "clients")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, repo.Delete(ctx, "clients"))
	assert.ErrorIs(t, repo.Delete(ctx, "clients"), repository.ErrNotFound)
}

func TestSlotRepository_EmptyKey(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()

	_, err := repo.Get(ctx, "")
	assert.ErrorIs(t, err, repository.ErrKeyEmpty)
	assert.ErrorIs(t, repo.Set(ctx, "", "[]"), repository.ErrKeyEmpty)
	assert.ErrorIs(t, repo.Delete(ctx, ""), repository.ErrKeyEmpty)
}
