package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/pkg/errors"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{
		client: client,
	}
}

func (r *firestoreFavoriteRepository) EnsureIndex(ctx context.Context, adID string) error {
	_, err := r.client.Collection("favorites").Doc(adID).Set(ctx, map[string]interface{}{
		"users": []string{},
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to create favorites index", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, adID, userID string) error {
	_, err := r.client.Collection("favorites").Doc(adID).Set(ctx, map[string]interface{}{
		"users": firestore.ArrayUnion(userID),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to add favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, adID, userID string) error {
	_, err := r.client.Collection("favorites").Doc(adID).Update(ctx, []firestore.Update{
		{Path: "users", Value: firestore.ArrayRemove(userID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return errors.Internal("Failed to remove favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) IsFavorite(ctx context.Context, adID, userID string) (bool, error) {
	doc, err := r.client.Collection("favorites").Doc(adID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to get favorites index", err)
	}

	var fav entity.Favorite
	if err := doc.DataTo(&fav); err != nil {
		return false, errors.Internal("Failed to parse favorites data", err)
	}

	for _, uid := range fav.Users {
		if uid == userID {
			return true, nil
		}
	}

	return false, nil
}

func (r *firestoreFavoriteRepository) ListAdIDsByUser(ctx context.Context, userID string) ([]string, error) {
	query := r.client.Collection("favorites").Where("users", "array-contains", userID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch favorites", err)
	}

	// The favorites document ID is the ad ID, so the join is just the
	// document keys of the matching index entries.
	var adIDs []string
	for _, doc := range docs {
		adIDs = append(adIDs, doc.Ref.ID)
	}

	return adIDs, nil
}

func (r *firestoreFavoriteRepository) Delete(ctx context.Context, adID string) error {
	_, err := r.client.Collection("favorites").Doc(adID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete favorites index", err)
	}

	return nil
}
