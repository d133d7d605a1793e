package usecase

import (
	"context"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	adRepo       repository.AdRepository
}

func NewFavoriteUseCase(favoriteRepo repository.FavoriteRepository, adRepo repository.AdRepository) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		adRepo:       adRepo,
	}
}

// Toggle adds or removes the ad from the user's favorites and reports the
// new state.
func (uc *FavoriteUseCase) Toggle(ctx context.Context, userID, adID string) (bool, error) {
	ad, err := uc.adRepo.GetByID(ctx, adID)
	if err != nil {
		return false, err
	}
	if ad.PostedBy == userID {
		return false, errors.BadRequest("You cannot favorite your own ad", nil)
	}

	saved, err := uc.favoriteRepo.IsFavorite(ctx, adID, userID)
	if err != nil {
		return false, err
	}

	if saved {
		return false, uc.favoriteRepo.Remove(ctx, adID, userID)
	}
	return true, uc.favoriteRepo.Add(ctx, adID, userID)
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, userID, adID string) (bool, error) {
	return uc.favoriteRepo.IsFavorite(ctx, adID, userID)
}

// ListFavorites resolves the user's saved ads. Index entries whose ad no
// longer exists are dropped silently.
func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID string) ([]*entity.Ad, error) {
	adIDs, err := uc.favoriteRepo.ListAdIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(adIDs) == 0 {
		return nil, nil
	}

	ads, err := uc.adRepo.GetByIDs(ctx, adIDs)
	if err != nil {
		return nil, err
	}

	if len(ads) < len(adIDs) {
		logger.Debug("ListFavorites: %d of %d favorite ads no longer exist for user %s", len(adIDs)-len(ads), len(adIDs), userID)
	}

	return ads, nil
}
