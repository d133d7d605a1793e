package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/ratelimit"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type ChatUseCase struct {
	convRepo    repository.ConversationRepository
	userRepo    repository.UserRepository
	adRepo      repository.AdRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	adRepo repository.AdRepository,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		convRepo:    convRepo,
		userRepo:    userRepo,
		adRepo:      adRepo,
		rateLimiter: rateLimiter,
	}
}

type SendMessageInput struct {
	ConversationID string
	Text           string
}

// ConversationView is a directory entry: the conversation resolved to its
// listing and both participant records.
type ConversationView struct {
	*entity.Conversation
	Ad   *entity.Ad   `json:"ad"`
	Self *entity.User `json:"self"`
	Peer *entity.User `json:"peer"`
}

// StartConversation is the explicit "contact seller" action: it derives the
// canonical conversation ID for (caller, seller, ad) and merge-creates the
// record, so repeated contact attempts land in the same conversation.
func (uc *ChatUseCase) StartConversation(ctx context.Context, userID, adID string) (*ConversationView, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "start_conversation")
	if !allowed {
		logger.Warn("StartConversation rate limited: user %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Too many new conversations, please wait before trying again")
	}

	ad, err := uc.adRepo.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}

	conv := &entity.Conversation{
		ID:    entity.ConversationID(userID, ad.PostedBy, adID),
		Users: []string{userID, ad.PostedBy},
		AdID:  adID,
	}

	if err := uc.convRepo.Upsert(ctx, conv); err != nil {
		logger.Error("StartConversation: failed to create conversation %s: %v", conv.ID, err)
		return nil, err
	}

	return uc.resolveConversation(ctx, userID, conv)
}

// SendMessage persists a message and updates the conversation's denormalized
// last-message fields. A conversation record that does not exist yet is
// created with the full participant set (first-contact case). Empty or
// whitespace-only text is rejected before any side effect.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.BadRequest("Message text must not be empty", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		logger.Warn("SendMessage rate limited: user %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Too many messages, please slow down")
	}

	highUID, lowUID, adID, err := entity.ParseConversationID(input.ConversationID)
	if err != nil {
		return nil, errors.BadRequest("Invalid conversation id", err)
	}
	if userID != highUID && userID != lowUID {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	msg := &entity.Message{
		Text:   text,
		Sender: userID,
	}

	if err := uc.convRepo.CreateMessage(ctx, input.ConversationID, msg); err != nil {
		logger.Error("SendMessage: failed to persist message in %s: %v", input.ConversationID, err)
		return nil, err
	}

	conv := &entity.Conversation{
		ID:         input.ConversationID,
		Users:      []string{highUID, lowUID},
		AdID:       adID,
		LastText:   text,
		LastSender: userID,
	}
	if err := uc.convRepo.SetLastMessage(ctx, conv); err != nil {
		// The message is durable; only the inbox badge metadata lags.
		logger.Error("SendMessage: failed to update metadata for %s: %v", input.ConversationID, err)
	}

	return msg, nil
}

func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if !conv.HasParticipant(userID) {
		return nil, 0, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	return uc.convRepo.ListMessages(ctx, conversationID, limit, offset)
}

// MarkConversationRead clears the unread flag. Only the non-sender side can
// clear it; the sender's own view never counts as reading.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil
		}
		return err
	}
	if !conv.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant of this conversation", nil)
	}

	if conv.LastSender == userID || !conv.LastUnread {
		return nil
	}

	return uc.convRepo.ClearUnread(ctx, conversationID)
}

// ListConversations builds the user's conversation directory. Entries whose
// ad or either participant record no longer exists are excluded rather than
// surfaced as errors.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationView, error) {
	convs, err := uc.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*ConversationView, 0, len(convs))
	for _, conv := range convs {
		view, err := uc.resolveConversation(ctx, userID, conv)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				logger.Debug("Excluding orphaned conversation %s: %v", conv.ID, err)
				continue
			}
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// Unread computes the user's unread badge counts from a fresh snapshot of
// their conversation metadata.
func (uc *ChatUseCase) Unread(ctx context.Context, userID string) (*UnreadSummary, error) {
	convs, err := uc.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := ComputeUnread(userID, convs)
	return &summary, nil
}

// DeleteConversation removes the message history and the anchor record.
// Message deletions run concurrently and individual failures only log: the
// anchor delete is what decides success, and deleting an already-absent
// conversation is a no-op, so retries are idempotent.
func (uc *ChatUseCase) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil
		}
		return err
	}
	if !conv.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant of this conversation", nil)
	}

	messageIDs, err := uc.convRepo.ListMessageIDs(ctx, conversationID)
	if err != nil {
		logger.Warn("DeleteConversation: failed to list messages of %s: %v", conversationID, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, messageID := range messageIDs {
		messageID := messageID
		g.Go(func() error {
			if err := uc.convRepo.DeleteMessage(gctx, conversationID, messageID); err != nil {
				logger.Warn("DeleteConversation: failed to delete message %s of %s: %v", messageID, conversationID, err)
			}
			return nil
		})
	}
	g.Wait()

	if err := uc.convRepo.Delete(ctx, conversationID); err != nil {
		logger.Error("DeleteConversation: failed to delete anchor record %s: %v", conversationID, err)
		return err
	}

	return nil
}

// DeleteConversationsForAd cascades a listing removal to every conversation
// that references it. Used when an owner or admin deletes an ad.
func (uc *ChatUseCase) DeleteConversationsForAd(ctx context.Context, userID, adID string) {
	convs, err := uc.convRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Warn("Cascade for ad %s: failed to list conversations: %v", adID, err)
		return
	}

	for _, conv := range convs {
		if conv.AdID != adID {
			continue
		}
		if err := uc.DeleteConversation(ctx, userID, conv.ID); err != nil {
			logger.Warn("Cascade for ad %s: failed to delete conversation %s: %v", adID, conv.ID, err)
		}
	}
}

func (uc *ChatUseCase) resolveConversation(ctx context.Context, userID string, conv *entity.Conversation) (*ConversationView, error) {
	ad, err := uc.adRepo.GetByID(ctx, conv.AdID)
	if err != nil {
		return nil, err
	}

	self, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	peerID := conv.Peer(userID)
	peer := self
	if peerID != userID {
		peer, err = uc.userRepo.GetByID(ctx, peerID)
		if err != nil {
			return nil, err
		}
	}

	return &ConversationView{
		Conversation: conv,
		Ad:           ad,
		Self:         self,
		Peer:         peer,
	}, nil
}
