package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	_, err := r.client.Collection("users").Doc(id).Set(ctx, map[string]interface{}{
		"online": online,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update presence", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetPhoto(ctx context.Context, id, photoURL, photoPath string) error {
	_, err := r.client.Collection("users").Doc(id).Set(ctx, map[string]interface{}{
		"photoUrl":  photoURL,
		"photoPath": photoPath,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update profile photo", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetInterests(ctx context.Context, id string, interests []string) error {
	_, err := r.client.Collection("users").Doc(id).Set(ctx, map[string]interface{}{
		"interests": interests,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update interests", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetRole(ctx context.Context, id, role string) error {
	_, err := r.client.Collection("users").Doc(id).Set(ctx, map[string]interface{}{
		"role":      role,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user role", err)
	}

	return nil
}

func (r *firestoreUserRepository) ListByRole(ctx context.Context, role string, limit int) ([]*entity.User, error) {
	query := r.client.Collection("users").Where("role", "==", role)
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query users by role", err)
	}

	var users []*entity.User
	for _, doc := range docs {
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			logger.Warn("Skipping unparsable user %s: %v", doc.Ref.ID, err)
			continue
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}

	return users, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.client.Collection("users").Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}

	var users []*entity.User
	for _, doc := range docs {
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			logger.Warn("Skipping unparsable user %s: %v", doc.Ref.ID, err)
			continue
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}

	return users, nil
}

func (r *firestoreUserRepository) Count(ctx context.Context) (int64, error) {
	result, err := r.client.Collection("users").NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to count users", err)
	}

	value, ok := result["all"]
	if !ok {
		return 0, errors.Internal("Missing count aggregation result", nil)
	}

	return value.(*firestorepb.Value).GetIntegerValue(), nil
}
