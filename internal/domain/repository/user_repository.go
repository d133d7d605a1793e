package repository

import (
	"context"

	"adboard/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetOnline(ctx context.Context, id string, online bool) error
	SetPhoto(ctx context.Context, id, photoURL, photoPath string) error
	SetInterests(ctx context.Context, id string, interests []string) error
	SetRole(ctx context.Context, id, role string) error
	ListByRole(ctx context.Context, role string, limit int) ([]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
