package usecase

import (
	"context"
	"time"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/storage"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type AdminUseCase struct {
	adRepo        repository.AdRepository
	userRepo      repository.UserRepository
	favoriteRepo  repository.FavoriteRepository
	storageClient *storage.CloudStorageClient
}

func NewAdminUseCase(
	adRepo repository.AdRepository,
	userRepo repository.UserRepository,
	favoriteRepo repository.FavoriteRepository,
	storageClient *storage.CloudStorageClient,
) *AdminUseCase {
	return &AdminUseCase{
		adRepo:        adRepo,
		userRepo:      userRepo,
		favoriteRepo:  favoriteRepo,
		storageClient: storageClient,
	}
}

type DashboardStats struct {
	TotalUsers  int64 `json:"total_users"`
	TotalAdmins int64 `json:"total_admins"`
	TotalAds    int64 `json:"total_ads"`
}

// Stats aggregates the dashboard counters. User and ad totals come from
// server-side count aggregations; the regular-user count excludes admins.
func (uc *AdminUseCase) Stats(ctx context.Context) (*DashboardStats, error) {
	totalUsers, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	admins, err := uc.userRepo.ListByRole(ctx, "admin", 0)
	if err != nil {
		return nil, err
	}
	totalAdmins := int64(len(admins))

	totalAds, err := uc.adRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:  totalUsers - totalAdmins,
		TotalAdmins: totalAdmins,
		TotalAds:    totalAds,
	}, nil
}

func (uc *AdminUseCase) ListPendingAds(ctx context.Context) ([]*entity.Ad, error) {
	return uc.adRepo.ListPending(ctx)
}

// ApproveAd publishes a pending listing: the ad is copied into the public
// collection, its favorites index is seeded and the pending entry removed.
func (uc *AdminUseCase) ApproveAd(ctx context.Context, pendingID string) (*entity.Ad, error) {
	pending, err := uc.adRepo.GetPending(ctx, pendingID)
	if err != nil {
		return nil, err
	}

	ad := &entity.Ad{
		Title:         pending.Title,
		Category:      pending.Category,
		Price:         pending.Price,
		Location:      pending.Location,
		ContactNumber: pending.ContactNumber,
		Description:   pending.Description,
		Images:        pending.Images,
		PostedBy:      pending.PostedBy,
		PublishedAt:   time.Now(),
	}

	if err := uc.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}

	if err := uc.favoriteRepo.EnsureIndex(ctx, ad.ID); err != nil {
		logger.Warn("ApproveAd: failed to seed favorites index for ad %s: %v", ad.ID, err)
	}

	if err := uc.adRepo.DeletePending(ctx, pendingID); err != nil {
		logger.Warn("ApproveAd: failed to remove pending entry %s: %v", pendingID, err)
	}

	logger.Info("Ad %s approved (pending entry %s)", ad.ID, pendingID)
	return ad, nil
}

// DeclineAd rejects a pending listing and deletes its uploaded images.
func (uc *AdminUseCase) DeclineAd(ctx context.Context, pendingID string) error {
	pending, err := uc.adRepo.GetPending(ctx, pendingID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil
		}
		return err
	}

	for _, image := range pending.Images {
		if err := uc.storageClient.DeleteFile(ctx, image.Path); err != nil {
			logger.Warn("DeclineAd: failed to delete image %s: %v", image.Path, err)
		}
	}

	return uc.adRepo.DeletePending(ctx, pendingID)
}

// ListUsers returns all non-admin accounts for the management screen.
func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var regular []*entity.User
	for _, user := range users {
		if user.Role != "admin" {
			regular = append(regular, user)
		}
	}

	return regular, nil
}

func (uc *AdminUseCase) SetUserRole(ctx context.Context, userID, role string) error {
	if role != "user" && role != "admin" {
		return errors.BadRequest("Role must be user or admin", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return uc.userRepo.SetRole(ctx, userID, role)
}

func (uc *AdminUseCase) ListUserAds(ctx context.Context, userID string) ([]*entity.Ad, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return uc.adRepo.ListByUser(ctx, userID)
}
