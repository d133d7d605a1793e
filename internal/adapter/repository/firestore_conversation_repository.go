package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) Upsert(ctx context.Context, conv *entity.Conversation) error {
	now := time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	_, err := r.client.Collection("conversations").Doc(conv.ID).Set(ctx, map[string]interface{}{
		"users":     conv.Users,
		"ad":        conv.AdID,
		"createdAt": conv.CreatedAt,
		"updatedAt": conv.UpdatedAt,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to create conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conv.ID = doc.Ref.ID

	return &conv, nil
}

func (r *firestoreConversationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").Where("users", "array-contains", userID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching conversations for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to fetch conversations", err)
	}

	var convs []*entity.Conversation
	for _, doc := range docs {
		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			logger.Warn("Skipping unparsable conversation %s: %v", doc.Ref.ID, err)
			continue
		}
		conv.ID = doc.Ref.ID
		convs = append(convs, &conv)
	}

	return convs, nil
}

func (r *firestoreConversationRepository) SetLastMessage(ctx context.Context, conv *entity.Conversation) error {
	ref := r.client.Collection("conversations").Doc(conv.ID)

	fields := map[string]interface{}{
		"users":      conv.Users,
		"ad":         conv.AdID,
		"lastText":   conv.LastText,
		"lastSender": conv.LastSender,
		"lastUnread": true,
		"updatedAt":  time.Now(),
	}

	// First contact through a direct send: the merge below creates the
	// record, so stamp createdAt only when it does not exist yet.
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		fields["createdAt"] = time.Now()
	}

	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return errors.Internal("Failed to update conversation metadata", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ClearUnread(ctx context.Context, id string) error {
	_, err := r.client.Collection("conversations").Doc(id).Set(ctx, map[string]interface{}{
		"lastUnread": false,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to clear unread flag", err)
	}

	return nil
}

// Delete removes the conversation record. Firestore treats deleting an
// absent document as success, which keeps retries of a cascade idempotent.
func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("conversations").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, conversationID string, msg *entity.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("conversations").Doc(conversationID).Collection("messages").Doc(msg.ID).Set(ctx, msg)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("conversations").Doc(conversationID).Collection("messages").OrderBy("createdAt", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching messages for conversation %s: %v", conversationID, err)
		return nil, 0, errors.Internal("Failed to fetch messages", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var messages []*entity.Message
	for _, doc := range allDocs[start:end] {
		var msg entity.Message
		if err := doc.DataTo(&msg); err != nil {
			logger.Warn("Skipping unparsable message %s in conversation %s: %v", doc.Ref.ID, conversationID, err)
			continue
		}
		msg.ID = doc.Ref.ID
		messages = append(messages, &msg)
	}

	return messages, total, nil
}

func (r *firestoreConversationRepository) ListMessageIDs(ctx context.Context, conversationID string) ([]string, error) {
	iter := r.client.Collection("conversations").Doc(conversationID).Collection("messages").Select().Documents(ctx)

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list message ids", err)
		}
		ids = append(ids, doc.Ref.ID)
	}

	return ids, nil
}

func (r *firestoreConversationRepository) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	_, err := r.client.Collection("conversations").Doc(conversationID).Collection("messages").Doc(messageID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete message", err)
	}

	return nil
}
