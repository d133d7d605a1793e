package repository

import (
	"context"
)

type FavoriteRepository interface {
	// EnsureIndex creates the per-ad favorites document with an empty user
	// set. Called when a listing is approved.
	EnsureIndex(ctx context.Context, adID string) error
	Add(ctx context.Context, adID, userID string) error
	Remove(ctx context.Context, adID, userID string) error
	IsFavorite(ctx context.Context, adID, userID string) (bool, error)
	ListAdIDsByUser(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, adID string) error
}
