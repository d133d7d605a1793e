package repository

import (
	"context"
	"time"

	"adboard/internal/domain/entity"
)

type AdRepository interface {
	Create(ctx context.Context, ad *entity.Ad) error
	GetByID(ctx context.Context, id string) (*entity.Ad, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Ad, error)
	List(ctx context.Context) ([]*entity.Ad, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Ad, error)
	ListPublishedSince(ctx context.Context, since time.Time) ([]*entity.Ad, error)
	SetSold(ctx context.Context, id string, sold bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	CreatePending(ctx context.Context, ad *entity.Ad) (string, error)
	GetPending(ctx context.Context, id string) (*entity.Ad, error)
	ListPending(ctx context.Context) ([]*entity.Ad, error)
	DeletePending(ctx context.Context, id string) error
}
