package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"

	"adboard/internal/domain/entity"
	"adboard/internal/infrastructure/realtime"
	"adboard/internal/usecase"
	apperrors "adboard/pkg/errors"
	"adboard/pkg/logger"
)

// Watchers bundles the realtime subscription constructors a session depends
// on. Function fields so tests can substitute in-memory streams.
type Watchers struct {
	Stream        realtime.StreamFunc
	User          func(userID string, onChange func(string, bool), onError func(error)) context.CancelFunc
	Ad            func(adID string, onChange func(string, bool), onError func(error)) context.CancelFunc
	Conversations func(userID string, onChange func([]*entity.Conversation), onError func(error)) context.CancelFunc
}

func NewFirestoreWatchers(client *firestore.Client) Watchers {
	return Watchers{
		Stream: realtime.NewMessageStream(client),
		User: func(userID string, onChange func(string, bool), onError func(error)) context.CancelFunc {
			return realtime.WatchUser(client, userID, onChange, onError)
		},
		Ad: func(adID string, onChange func(string, bool), onError func(error)) context.CancelFunc {
			return realtime.WatchAd(client, adID, onChange, onError)
		},
		Conversations: func(userID string, onChange func([]*entity.Conversation), onError func(error)) context.CancelFunc {
			return realtime.WatchConversations(client, userID, onChange, onError)
		},
	}
}

// ChatSession is the stateful server side of one websocket connection. It
// owns the message listener for the conversation the client currently has
// open, the presence subscriptions for the client's chat peers, and a
// watcher on the listing behind the open conversation so a removed listing
// tears the conversation down while it is being viewed.
type ChatSession struct {
	userID   string
	chat     *usecase.ChatUseCase
	watchers Watchers
	send     func(Event)

	listener *realtime.ListenerManager
	subs     *realtime.SubscriptionSet

	mu            sync.Mutex
	adWatchCancel context.CancelFunc
	watchedPeers  map[string]bool
	closed        bool
}

func NewChatSession(userID string, chat *usecase.ChatUseCase, watchers Watchers, send func(Event)) *ChatSession {
	s := &ChatSession{
		userID:       userID,
		chat:         chat,
		watchers:     watchers,
		send:         send,
		subs:         realtime.NewSubscriptionSet(),
		watchedPeers: make(map[string]bool),
	}

	s.listener = realtime.NewListenerManager(
		watchers.Stream,
		func(batch realtime.MessageBatch) {
			s.send(NewEvent(EventMessageBatch, MessageBatchData{
				ConversationID: batch.ConversationID,
				Messages:       batch.Messages,
			}))
		},
		func(conversationID string, err error) {
			logger.Error("Message stream failed for %s (user %s): %v", conversationID, userID, err)
			s.send(NewEvent(EventError, ErrorData{Message: "message stream interrupted"}))
		},
	)

	return s
}

// Start pushes the initial unread summary and wires the standing
// subscriptions: one on the user's conversation set for unread badge
// updates, plus one presence watch per known chat peer.
func (s *ChatSession) Start(ctx context.Context) {
	if summary, err := s.chat.Unread(ctx, s.userID); err != nil {
		logger.Warn("Initial unread summary failed for user %s: %v", s.userID, err)
	} else {
		s.send(NewEvent(EventUnread, summary))
	}

	s.subs.Add(s.watchers.Conversations(s.userID, func(convs []*entity.Conversation) {
		s.send(NewEvent(EventUnread, usecase.ComputeUnread(s.userID, convs)))
		for _, conv := range convs {
			s.watchPeer(conv.Peer(s.userID))
		}
	}, func(err error) {
		logger.Error("Conversation watch failed for user %s: %v", s.userID, err)
	}))
}

// watchPeer starts a presence subscription for a peer, once per session.
func (s *ChatSession) watchPeer(peerID string) {
	if peerID == "" || peerID == s.userID {
		return
	}

	s.mu.Lock()
	if s.closed || s.watchedPeers[peerID] {
		s.mu.Unlock()
		return
	}
	s.watchedPeers[peerID] = true
	s.mu.Unlock()

	s.subs.Add(s.watchers.User(peerID, func(userID string, online bool) {
		s.send(NewEvent(EventPresence, PresenceData{UserID: userID, Online: online}))
	}, func(err error) {
		logger.Warn("Presence watch failed for %s: %v", peerID, err)
	}))
}

// Handle dispatches one client event. Called from the connection's read
// loop, so events from one connection are processed in order.
func (s *ChatSession) Handle(event Event) {
	ctx := context.Background()

	switch event.Type {
	case EventPing:
		s.send(NewEvent(EventPong, nil))

	case EventOpenConversation:
		var data OpenConversationData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			s.sendError("malformed open_conversation event")
			return
		}
		s.handleOpen(ctx, data.ConversationID)

	case EventCloseConversation:
		s.handleClose()

	case EventSendMessage:
		var data SendMessageData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			s.sendError("malformed send_message event")
			return
		}
		s.handleSend(ctx, data)

	case EventMarkRead:
		var data MarkReadData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			s.sendError("malformed mark_read event")
			return
		}
		if err := s.chat.MarkConversationRead(ctx, s.userID, data.ConversationID); err != nil {
			logger.Error("Mark read failed for %s (user %s): %v", data.ConversationID, s.userID, err)
			s.sendError("could not mark conversation as read")
		}

	case EventDeleteConversation:
		var data DeleteConversationData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			s.sendError("malformed delete_conversation event")
			return
		}
		s.handleDelete(ctx, data.ConversationID)

	default:
		s.sendError("unknown event type: " + event.Type)
	}
}

// handleOpen makes conversationID the session's single active conversation:
// the previous message listener and listing watcher are torn down, the new
// ones attached, and the conversation is cleared of its unread mark.
func (s *ChatSession) handleOpen(ctx context.Context, conversationID string) {
	highUID, lowUID, adID, err := entity.ParseConversationID(conversationID)
	if err != nil {
		s.sendError("invalid conversation id")
		return
	}
	if s.userID != highUID && s.userID != lowUID {
		logger.Warn("User %s tried to open conversation %s without being a participant", s.userID, conversationID)
		s.sendError("conversation not found")
		return
	}

	if err := s.chat.MarkConversationRead(ctx, s.userID, conversationID); err != nil {
		logger.Warn("Mark read on open failed for %s: %v", conversationID, err)
	}

	s.listener.Activate(conversationID)

	s.mu.Lock()
	if s.adWatchCancel != nil {
		s.adWatchCancel()
	}
	s.adWatchCancel = s.watchers.Ad(adID, func(_ string, exists bool) {
		if exists {
			return
		}
		s.onAdRemoved(conversationID)
	}, func(err error) {
		logger.Warn("Listing watch failed for %s: %v", adID, err)
	})
	s.mu.Unlock()
}

// onAdRemoved handles the listing behind a watched conversation disappearing.
// The cascade only fires while that conversation is still the open one; a
// late notification for a conversation the client has since navigated away
// from is ignored.
func (s *ChatSession) onAdRemoved(conversationID string) {
	if s.listener.CurrentID() != conversationID {
		return
	}

	logger.Info("Listing removed behind open conversation %s, tearing down", conversationID)

	if err := s.chat.DeleteConversation(context.Background(), s.userID, conversationID); err != nil {
		logger.Error("Cascade delete of %s failed: %v", conversationID, err)
	}

	s.closeConversation()
	s.send(NewEvent(EventConversationClosed, ConversationClosedData{
		ConversationID: conversationID,
		Reason:         "ad_removed",
	}))
}

// handleSend implements the optimistic send round trip. The pending echo
// goes out before the durable write; on failure the rollback event carries
// the original text back so the client can restore it to the composer.
func (s *ChatSession) handleSend(ctx context.Context, data SendMessageData) {
	text := strings.TrimSpace(data.Text)
	if text == "" {
		logger.Debug("Ignoring empty send_message from user %s", s.userID)
		return
	}

	s.send(NewEvent(EventMessagePending, MessagePendingData{
		TempID:         data.TempID,
		ConversationID: data.ConversationID,
		Text:           text,
		Sender:         s.userID,
	}))

	msg, err := s.chat.SendMessage(ctx, s.userID, usecase.SendMessageInput{
		ConversationID: data.ConversationID,
		Text:           text,
	})
	if err != nil {
		logger.Error("Send failed in %s for user %s: %v", data.ConversationID, s.userID, err)
		s.send(NewEvent(EventMessageFailed, MessageFailedData{
			TempID:         data.TempID,
			ConversationID: data.ConversationID,
			Text:           data.Text,
			Reason:         failureReason(err),
		}))
		return
	}

	s.send(NewEvent(EventMessageCommitted, MessageCommittedData{
		TempID:  data.TempID,
		Message: msg,
	}))
}

func (s *ChatSession) handleDelete(ctx context.Context, conversationID string) {
	if err := s.chat.DeleteConversation(ctx, s.userID, conversationID); err != nil {
		logger.Error("Delete of %s failed for user %s: %v", conversationID, s.userID, err)
		s.sendError("could not delete conversation")
		return
	}

	if s.listener.CurrentID() == conversationID {
		s.closeConversation()
	}
	s.send(NewEvent(EventConversationClosed, ConversationClosedData{
		ConversationID: conversationID,
		Reason:         "deleted",
	}))
}

func (s *ChatSession) handleClose() {
	s.closeConversation()
}

// closeConversation detaches the message listener and the listing watcher
// for whatever conversation is currently open.
func (s *ChatSession) closeConversation() {
	s.listener.Deactivate()

	s.mu.Lock()
	if s.adWatchCancel != nil {
		s.adWatchCancel()
		s.adWatchCancel = nil
	}
	s.mu.Unlock()
}

// Close releases everything the session holds. Safe to call more than once.
func (s *ChatSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.closeConversation()
	s.subs.CancelAll()
}

func (s *ChatSession) sendError(message string) {
	s.send(NewEvent(EventError, ErrorData{Message: message}))
}

func failureReason(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Message
	}
	return "message could not be delivered"
}
