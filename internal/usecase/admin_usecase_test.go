package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain/entity"
	apperrors "adboard/pkg/errors"
)

func newAdminFixture() (*AdminUseCase, *memAdRepo, *memUserRepo, *memFavoriteRepo) {
	adRepo := newMemAdRepo()
	userRepo := newMemUserRepo(
		&entity.User{ID: "admin1", Role: "admin"},
		&entity.User{ID: "u1", Role: "user"},
		&entity.User{ID: "u2", Role: "user"},
	)
	favoriteRepo := newMemFavoriteRepo()
	return NewAdminUseCase(adRepo, userRepo, favoriteRepo, nil), adRepo, userRepo, favoriteRepo
}

func TestAdminStats(t *testing.T) {
	uc, adRepo, _, _ := newAdminFixture()
	ctx := context.Background()

	require.NoError(t, adRepo.Create(ctx, &entity.Ad{Title: "Old bike", PostedBy: "u1"}))

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalAdmins)
	assert.Equal(t, int64(1), stats.TotalAds)
}

func TestApproveAd(t *testing.T) {
	uc, adRepo, _, favoriteRepo := newAdminFixture()
	ctx := context.Background()

	pendingID, err := adRepo.CreatePending(ctx, &entity.Ad{
		Title:    "Old bike",
		Category: "sports",
		Price:    120,
		PostedBy: "u1",
	})
	require.NoError(t, err)

	ad, err := uc.ApproveAd(ctx, pendingID)
	require.NoError(t, err)
	require.NotEmpty(t, ad.ID)
	assert.False(t, ad.PublishedAt.IsZero())

	published, err := adRepo.GetByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old bike", published.Title)

	// The pending entry is gone and the favorites index is seeded.
	_, err = adRepo.GetPending(ctx, pendingID)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	ids, err := favoriteRepo.ListAdIDsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
	saved, err := favoriteRepo.IsFavorite(ctx, ad.ID, "nobody")
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestApproveAdUnknownPending(t *testing.T) {
	uc, _, _, _ := newAdminFixture()

	_, err := uc.ApproveAd(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestDeclineAd(t *testing.T) {
	uc, adRepo, _, _ := newAdminFixture()
	ctx := context.Background()

	pendingID, err := adRepo.CreatePending(ctx, &entity.Ad{Title: "Old bike", PostedBy: "u1"})
	require.NoError(t, err)

	require.NoError(t, uc.DeclineAd(ctx, pendingID))

	_, err = adRepo.GetPending(ctx, pendingID)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	// Declining an already-removed entry is a no-op.
	assert.NoError(t, uc.DeclineAd(ctx, pendingID))
}

func TestListUsersExcludesAdmins(t *testing.T) {
	uc, _, _, _ := newAdminFixture()

	users, err := uc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.NotEqual(t, "admin", user.Role)
	}
}

func TestSetUserRole(t *testing.T) {
	uc, _, userRepo, _ := newAdminFixture()
	ctx := context.Background()

	require.NoError(t, uc.SetUserRole(ctx, "u1", "admin"))

	user, err := userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	assert.Error(t, uc.SetUserRole(ctx, "u1", "superuser"))
	assert.Error(t, uc.SetUserRole(ctx, "missing", "admin"))
}
