package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/testutil"
)

func TestWatchlistRepo_AddListRemove(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewWatchlistRepo(db)
		user := createTestUser(t, db, uniqueEmail("watcher"))

		item, err := repo.Add(ctx, model.CreateWatchItemRequest{
			CUSIP:     "037833100",
			AssetType: model.AssetTypeEquity,
		}, user.ID)
		require.NoError(t, err)
		require.NotZero(t, item.ID)
		assert.Equal(t, user.ID, item.CreatedBy)

		list, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "037833100", list[0].CUSIP)

		require.NoError(t, repo.Remove(ctx, item.ID, user.ID))
		list, err = repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestWatchlistRepo_DuplicatePerUser(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewWatchlistRepo(db)
		alice := createTestUser(t, db, uniqueEmail("alice-w"))
		bob := createTestUser(t, db, uniqueEmail("bob-w"))

		req := model.CreateWatchItemRequest{CUSIP: "17275R102", AssetType: model.AssetTypeEquity}

		_, err := repo.Add(ctx, req, alice.ID)
		require.NoError(t, err)

		_, err = repo.Add(ctx, req, alice.ID)
		assert.ErrorIs(t, err, ErrWatchItemExists)

		// Same CUSIP on another user's list is independent.
		_, err = repo.Add(ctx, req, bob.ID)
		assert.NoError(t, err)
	})
}

func TestWatchlistRepo_RemoveScopedToOwner(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewWatchlistRepo(db)
		alice := createTestUser(t, db, uniqueEmail("alice-s"))
		bob := createTestUser(t, db, uniqueEmail("bob-s"))

		item, err := repo.Add(ctx, model.CreateWatchItemRequest{
			CUSIP:     "68389X105",
			AssetType: model.AssetTypeEquity,
		}, alice.ID)
		require.NoError(t, err)

		// Bob cannot remove Alice's entry.
		err = repo.Remove(ctx, item.ID, bob.ID)
		assert.ErrorIs(t, err, ErrWatchItemNotFound)

		list, err := repo.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
