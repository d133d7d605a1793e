package usecase

import (
	"context"
	"strings"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/storage"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type AdUseCase struct {
	adRepo        repository.AdRepository
	favoriteRepo  repository.FavoriteRepository
	userRepo      repository.UserRepository
	storageClient *storage.CloudStorageClient
	chatUseCase   *ChatUseCase
}

func NewAdUseCase(
	adRepo repository.AdRepository,
	favoriteRepo repository.FavoriteRepository,
	userRepo repository.UserRepository,
	storageClient *storage.CloudStorageClient,
	chatUseCase *ChatUseCase,
) *AdUseCase {
	return &AdUseCase{
		adRepo:        adRepo,
		favoriteRepo:  favoriteRepo,
		userRepo:      userRepo,
		storageClient: storageClient,
		chatUseCase:   chatUseCase,
	}
}

type SubmitAdInput struct {
	Title         string
	Category      string
	Price         float64
	Location      string
	ContactNumber string
	Description   string
	Images        []entity.AdImage
}

type AdDetail struct {
	*entity.Ad
	Seller *entity.User `json:"seller,omitempty"`
}

// SubmitAd places a new listing into the moderation queue. It becomes
// publicly visible only after an admin approves it.
func (uc *AdUseCase) SubmitAd(ctx context.Context, userID string, input SubmitAdInput) (string, error) {
	ad := &entity.Ad{
		Title:         input.Title,
		Category:      input.Category,
		Price:         input.Price,
		Location:      input.Location,
		ContactNumber: input.ContactNumber,
		Description:   input.Description,
		Images:        input.Images,
		PostedBy:      userID,
	}

	id, err := uc.adRepo.CreatePending(ctx, ad)
	if err != nil {
		return "", err
	}

	logger.Info("Ad %s submitted for review by user %s", id, userID)
	return id, nil
}

// ListAds returns published listings, newest first, optionally narrowed by
// category and a case-insensitive title search. Filtering happens in memory:
// the document store has no substring queries and the listing volume is
// small enough that one ordered fetch is the simpler trade.
func (uc *AdUseCase) ListAds(ctx context.Context, category, search string, limit, offset int) ([]*entity.Ad, int64, error) {
	ads, err := uc.adRepo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	var filtered []*entity.Ad
	for _, ad := range ads {
		if category != "" && category != "all" && !strings.EqualFold(ad.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(ad.Title), strings.ToLower(search)) {
			continue
		}
		filtered = append(filtered, ad)
	}

	total := int64(len(filtered))

	start := offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return filtered[start:end], total, nil
}

func (uc *AdUseCase) GetAd(ctx context.Context, id string) (*AdDetail, error) {
	ad, err := uc.adRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AdDetail{Ad: ad}

	seller, err := uc.userRepo.GetByID(ctx, ad.PostedBy)
	if err != nil {
		logger.Warn("GetAd: seller %s of ad %s not found: %v", ad.PostedBy, id, err)
	} else {
		detail.Seller = seller
	}

	return detail, nil
}

func (uc *AdUseCase) ListUserAds(ctx context.Context, userID string) ([]*entity.Ad, error) {
	return uc.adRepo.ListByUser(ctx, userID)
}

// SetSold toggles the booked/sold flag. Only the owner may flip it.
func (uc *AdUseCase) SetSold(ctx context.Context, userID, adID string, sold bool) error {
	ad, err := uc.adRepo.GetByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad.PostedBy != userID {
		return errors.Forbidden("Only the owner can change the ad status", nil)
	}

	return uc.adRepo.SetSold(ctx, adID, sold)
}

// DeleteAd removes the listing, its stored images, its favorites index entry
// and the owner's conversations about it. Image and index deletions are
// best-effort; the ad document is the anchor record.
func (uc *AdUseCase) DeleteAd(ctx context.Context, userID, adID string) error {
	ad, err := uc.adRepo.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil
		}
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if ad.PostedBy != userID && user.Role != "admin" {
		return errors.Forbidden("Only the owner or an admin can delete this ad", nil)
	}

	for _, image := range ad.Images {
		if err := uc.storageClient.DeleteFile(ctx, image.Path); err != nil {
			logger.Warn("DeleteAd: failed to delete image %s of ad %s: %v", image.Path, adID, err)
		}
	}

	if err := uc.favoriteRepo.Delete(ctx, adID); err != nil {
		logger.Warn("DeleteAd: failed to delete favorites index of ad %s: %v", adID, err)
	}

	if err := uc.adRepo.Delete(ctx, adID); err != nil {
		return err
	}

	uc.chatUseCase.DeleteConversationsForAd(ctx, ad.PostedBy, adID)

	return nil
}
