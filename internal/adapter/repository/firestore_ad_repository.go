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

type firestoreAdRepository struct {
	client *firestore.Client
}

func NewFirestoreAdRepository(client *firestore.Client) repository.AdRepository {
	return &firestoreAdRepository{
		client: client,
	}
}

func (r *firestoreAdRepository) Create(ctx context.Context, ad *entity.Ad) error {
	if ad.ID == "" {
		ad.ID = r.client.Collection("ads").NewDoc().ID
	}

	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	if ad.PublishedAt.IsZero() {
		ad.PublishedAt = now
	}

	_, err := r.client.Collection("ads").Doc(ad.ID).Set(ctx, ad)
	if err != nil {
		return errors.Internal("Failed to create ad", err)
	}

	return nil
}

func (r *firestoreAdRepository) GetByID(ctx context.Context, id string) (*entity.Ad, error) {
	doc, err := r.client.Collection("ads").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Ad", err)
		}
		return nil, errors.Internal("Failed to get ad", err)
	}

	var ad entity.Ad
	if err := doc.DataTo(&ad); err != nil {
		return nil, errors.Internal("Failed to parse ad data", err)
	}
	ad.ID = doc.Ref.ID

	return &ad, nil
}

// GetByIDs dereferences ads by document ID in a single batched read.
// Missing documents are skipped, not errors: favorites may point at ads
// that were deleted since they were saved.
func (r *firestoreAdRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Ad, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection("ads").Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to fetch ads by id", err)
	}

	var ads []*entity.Ad
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var ad entity.Ad
		if err := doc.DataTo(&ad); err != nil {
			logger.Warn("Skipping unparsable ad %s: %v", doc.Ref.ID, err)
			continue
		}
		ad.ID = doc.Ref.ID
		ads = append(ads, &ad)
	}

	return ads, nil
}

func (r *firestoreAdRepository) List(ctx context.Context) ([]*entity.Ad, error) {
	query := r.client.Collection("ads").OrderBy("publishedAt", firestore.Desc)
	return r.collectAds(ctx, query)
}

func (r *firestoreAdRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Ad, error) {
	query := r.client.Collection("ads").
		Where("postedBy", "==", userID).
		OrderBy("publishedAt", firestore.Desc)
	return r.collectAds(ctx, query)
}

func (r *firestoreAdRepository) ListPublishedSince(ctx context.Context, since time.Time) ([]*entity.Ad, error) {
	query := r.client.Collection("ads").
		Where("publishedAt", ">=", since).
		OrderBy("publishedAt", firestore.Desc)
	return r.collectAds(ctx, query)
}

func (r *firestoreAdRepository) SetSold(ctx context.Context, id string, sold bool) error {
	_, err := r.client.Collection("ads").Doc(id).Set(ctx, map[string]interface{}{
		"isSold": sold,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update ad status", err)
	}

	return nil
}

func (r *firestoreAdRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("ads").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete ad", err)
	}

	return nil
}

func (r *firestoreAdRepository) Count(ctx context.Context) (int64, error) {
	result, err := r.client.Collection("ads").NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to count ads", err)
	}

	value, ok := result["all"]
	if !ok {
		return 0, errors.Internal("Missing count aggregation result", nil)
	}

	return value.(*firestorepb.Value).GetIntegerValue(), nil
}

func (r *firestoreAdRepository) CreatePending(ctx context.Context, ad *entity.Ad) (string, error) {
	doc := r.client.Collection("pendingAds").NewDoc()
	ad.ID = doc.ID
	ad.Status = "pending"

	now := time.Now()
	ad.CreatedAt = now
	ad.PublishedAt = now

	if _, err := doc.Set(ctx, ad); err != nil {
		return "", errors.Internal("Failed to submit ad for review", err)
	}

	return doc.ID, nil
}

func (r *firestoreAdRepository) GetPending(ctx context.Context, id string) (*entity.Ad, error) {
	doc, err := r.client.Collection("pendingAds").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Pending ad", err)
		}
		return nil, errors.Internal("Failed to get pending ad", err)
	}

	var ad entity.Ad
	if err := doc.DataTo(&ad); err != nil {
		return nil, errors.Internal("Failed to parse pending ad data", err)
	}
	ad.ID = doc.Ref.ID

	return &ad, nil
}

func (r *firestoreAdRepository) ListPending(ctx context.Context) ([]*entity.Ad, error) {
	query := r.client.Collection("pendingAds").OrderBy("createdAt", firestore.Desc)
	return r.collectAds(ctx, query)
}

func (r *firestoreAdRepository) DeletePending(ctx context.Context, id string) error {
	_, err := r.client.Collection("pendingAds").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete pending ad", err)
	}

	return nil
}

func (r *firestoreAdRepository) collectAds(ctx context.Context, query firestore.Query) ([]*entity.Ad, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch ads", err)
	}

	var ads []*entity.Ad
	for _, doc := range docs {
		var ad entity.Ad
		if err := doc.DataTo(&ad); err != nil {
			logger.Warn("Skipping unparsable ad %s: %v", doc.Ref.ID, err)
			continue
		}
		ad.ID = doc.Ref.ID
		ads = append(ads, &ad)
	}

	return ads, nil
}
