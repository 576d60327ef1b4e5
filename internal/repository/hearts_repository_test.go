package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartsRepository_LocalFallback(t *testing.T) {
	ctx := context.Background()
	repo := NewHeartsRepository(nil, 0)

	_, ok, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, 1, 2, 3))
	require.NoError(t, repo.Set(ctx, 1, 3, -1))

	n, ok, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, _, _ = repo.Get(ctx, 1, 3)
	assert.Equal(t, 0, n, "negative hearts are floored")

	require.NoError(t, repo.Reset(ctx, 1, 2))
	_, ok, _ = repo.Get(ctx, 1, 2)
	assert.False(t, ok)
}

func TestHeartsRepository_ActiveLevel(t *testing.T) {
	ctx := context.Background()
	repo := NewHeartsRepository(nil, 0)

	_, ok, err := repo.ActiveLevel(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetActiveLevel(ctx, 9, 42))
	id, ok, err := repo.ActiveLevel(ctx, 9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestHeartsRepository_LowerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewHeartsRepository(nil, 0)

	before, after, err := repo.Lower(ctx, 1, 2, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, before, "missing key starts from the initial value")
	assert.Equal(t, 2, after)

	before, after, err = repo.Lower(ctx, 1, 2, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, before)
	assert.Equal(t, 2, after)

	_, after, err = repo.Lower(ctx, 1, 2, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, after, "never raises hearts")

	_, after, err = repo.Lower(ctx, 1, 2, -4, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, after)
}

func TestHeartsRepository_PageHearts(t *testing.T) {
	ctx := context.Background()
	repo := NewHeartsRepository(nil, 0)

	_, ok, err := repo.PageHearts(ctx, 1, 2, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetPageHearts(ctx, 1, 2, 0, 3))
	require.NoError(t, repo.SetPageHearts(ctx, 1, 2, 1, 2))
	n, ok, err := repo.PageHearts(ctx, 1, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}
