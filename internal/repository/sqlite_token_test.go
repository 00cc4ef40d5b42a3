package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepo_CreateGetList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTokenRepo(db)
	ctx := context.Background()

	tok := testutil.NewTestToken("carol", testutil.WithOrigin("north"))
	require.NoError(t, repo.Create(ctx, tok))
	require.NoError(t, repo.Create(ctx, testutil.NewTestToken("dave")))

	fetched, err := repo.GetByID(ctx, tok.ID)
	require.NoError(t, err)
	assert.Equal(t, tok, fetched)

	carols, err := repo.ListByHolder(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, carols, 1)
	assert.Equal(t, "north", carols[0].Origin)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}
