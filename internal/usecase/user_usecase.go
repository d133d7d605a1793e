package usecase

import (
	"context"
	"io"
	"time"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/storage"
	"adboard/pkg/logger"
)

type UserUseCase struct {
	userRepo      repository.UserRepository
	adRepo        repository.AdRepository
	storageClient *storage.CloudStorageClient
}

func NewUserUseCase(userRepo repository.UserRepository, adRepo repository.AdRepository, storageClient *storage.CloudStorageClient) *UserUseCase {
	return &UserUseCase{
		userRepo:      userRepo,
		adRepo:        adRepo,
		storageClient: storageClient,
	}
}

type ProfileResponse struct {
	User *entity.User `json:"user"`
	Ads  []*entity.Ad `json:"ads"`
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ads, err := uc.adRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Warn("GetProfile: failed to list ads of user %s: %v", userID, err)
		ads = nil
	}

	return &ProfileResponse{
		User: user,
		Ads:  ads,
	}, nil
}

// UploadPhoto stores a new profile photo and replaces the previous one.
func (uc *UserUseCase) UploadPhoto(ctx context.Context, userID, contentType string, file io.Reader) (*storage.FileRef, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref, err := uc.storageClient.UploadFile(ctx, file, contentType, "public/profile")
	if err != nil {
		return nil, err
	}

	if user.PhotoPath != "" {
		if err := uc.storageClient.DeleteFile(ctx, user.PhotoPath); err != nil {
			logger.Warn("UploadPhoto: failed to delete previous photo %s: %v", user.PhotoPath, err)
		}
	}

	if err := uc.userRepo.SetPhoto(ctx, userID, ref.URL, ref.Path); err != nil {
		return nil, err
	}

	return ref, nil
}

func (uc *UserUseCase) DeletePhoto(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PhotoPath != "" {
		if err := uc.storageClient.DeleteFile(ctx, user.PhotoPath); err != nil {
			logger.Warn("DeletePhoto: failed to delete photo %s: %v", user.PhotoPath, err)
		}
	}

	return uc.userRepo.SetPhoto(ctx, userID, "", "")
}

func (uc *UserUseCase) UpdateInterests(ctx context.Context, userID string, interests []string) error {
	return uc.userRepo.SetInterests(ctx, userID, interests)
}

// InterestFeed returns recently published ads matching the user's selected
// interest categories. "Recent" means the last three days.
func (uc *UserUseCase) InterestFeed(ctx context.Context, userID string) ([]*entity.Ad, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Interests) == 0 {
		return nil, nil
	}

	recent, err := uc.adRepo.ListPublishedSince(ctx, time.Now().AddDate(0, 0, -3))
	if err != nil {
		return nil, err
	}

	interests := make(map[string]bool, len(user.Interests))
	for _, category := range user.Interests {
		interests[category] = true
	}

	var matched []*entity.Ad
	for _, ad := range recent {
		if ad.PostedBy == userID {
			continue
		}
		if interests[ad.Category] {
			matched = append(matched, ad)
		}
	}

	return matched, nil
}
