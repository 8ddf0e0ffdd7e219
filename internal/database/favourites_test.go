package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavourites(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	plazaID, innID, _ := seedCity(t, db)

	require.NoError(t, db.AddFavourite(ctx, 1, plazaID))
	require.NoError(t, db.AddFavourite(ctx, 1, innID))

	t.Run("adding twice reports already favourite", func(t *testing.T) {
		err := db.AddFavourite(ctx, 1, plazaID)
		assert.ErrorIs(t, err, ErrAlreadyFavourite)
	})

	t.Run("unknown hotel", func(t *testing.T) {
		err := db.AddFavourite(ctx, 1, 999)
		assert.ErrorIs(t, err, ErrHotelNotFound)
	})

	t.Run("list is newest first and per user", func(t *testing.T) {
		hotels, err := db.GetUserFavourites(ctx, 1)
		require.NoError(t, err)
		require.Len(t, hotels, 2)
		assert.Equal(t, innID, hotels[0].ID)
		assert.Equal(t, plazaID, hotels[1].ID)

		hotels, err = db.GetUserFavourites(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, hotels)
	})

	t.Run("is favourite", func(t *testing.T) {
		fav, err := db.IsFavourite(ctx, 1, plazaID)
		require.NoError(t, err)
		assert.True(t, fav)

		fav, err = db.IsFavourite(ctx, 2, plazaID)
		require.NoError(t, err)
		assert.False(t, fav)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, db.RemoveFavourite(ctx, 1, plazaID))

		err := db.RemoveFavourite(ctx, 1, plazaID)
		assert.ErrorIs(t, err, ErrFavouriteNotFound)

		hotels, err := db.GetUserFavourites(ctx, 1)
		require.NoError(t, err)
		require.Len(t, hotels, 1)
		assert.Equal(t, innID, hotels[0].ID)
	})
}
