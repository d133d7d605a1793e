package repository

import (
	"context"

	"adboard/internal/domain/entity"
)

type ConversationRepository interface {
	// Upsert merge-writes the conversation record; it creates the document
	// on first contact and leaves unrelated fields intact otherwise.
	Upsert(ctx context.Context, conv *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error)
	// SetLastMessage updates the denormalized last-message fields after a
	// send, creating the record with the full participant set if missing.
	SetLastMessage(ctx context.Context, conv *entity.Conversation) error
	ClearUnread(ctx context.Context, id string) error
	// Delete removes the anchor record. Deleting an absent record succeeds.
	Delete(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, conversationID string, msg *entity.Message) error
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
	ListMessageIDs(ctx context.Context, conversationID string) ([]string, error)
	DeleteMessage(ctx context.Context, conversationID, messageID string) error
}
