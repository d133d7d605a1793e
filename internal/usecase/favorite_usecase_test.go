package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain/entity"
	apperrors "adboard/pkg/errors"
)

func newFavoriteFixture() (*FavoriteUseCase, *memFavoriteRepo, *memAdRepo) {
	favoriteRepo := newMemFavoriteRepo()
	adRepo := newMemAdRepo(
		&entity.Ad{ID: "ad1", Title: "Old bike", PostedBy: "seller"},
		&entity.Ad{ID: "ad2", Title: "Lamp", PostedBy: "seller"},
	)
	return NewFavoriteUseCase(favoriteRepo, adRepo), favoriteRepo, adRepo
}

func TestToggleFavorite(t *testing.T) {
	uc, _, _ := newFavoriteFixture()
	ctx := context.Background()

	saved, err := uc.Toggle(ctx, "buyer", "ad1")
	require.NoError(t, err)
	assert.True(t, saved)

	isFav, err := uc.IsFavorite(ctx, "buyer", "ad1")
	require.NoError(t, err)
	assert.True(t, isFav)

	// Toggling again removes the mark.
	saved, err = uc.Toggle(ctx, "buyer", "ad1")
	require.NoError(t, err)
	assert.False(t, saved)

	isFav, err = uc.IsFavorite(ctx, "buyer", "ad1")
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestToggleFavoriteOwnAdRejected(t *testing.T) {
	uc, _, _ := newFavoriteFixture()

	_, err := uc.Toggle(context.Background(), "seller", "ad1")
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
}

func TestToggleFavoriteUnknownAd(t *testing.T) {
	uc, _, _ := newFavoriteFixture()

	_, err := uc.Toggle(context.Background(), "buyer", "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestListFavoritesDropsRemovedAds(t *testing.T) {
	uc, favoriteRepo, adRepo := newFavoriteFixture()
	ctx := context.Background()

	require.NoError(t, favoriteRepo.Add(ctx, "ad1", "buyer"))
	require.NoError(t, favoriteRepo.Add(ctx, "ad2", "buyer"))

	// The listing disappears but its favorites index entry lingers.
	require.NoError(t, adRepo.Delete(ctx, "ad2"))

	ads, err := uc.ListFavorites(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "ad1", ads[0].ID)
}

func TestListFavoritesEmpty(t *testing.T) {
	uc, _, _ := newFavoriteFixture()

	ads, err := uc.ListFavorites(context.Background(), "buyer")
	require.NoError(t, err)
	assert.Empty(t, ads)
}
