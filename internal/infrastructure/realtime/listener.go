package realtime

import (
	"context"
	"sync"

	"adboard/internal/domain/entity"
	"adboard/pkg/logger"
)

// MessageBatch is one delivery from a conversation's message stream: the
// full ordered message list as of the underlying snapshot.
type MessageBatch struct {
	ConversationID string
	Messages       []*entity.Message
}

// StreamFunc opens a message stream for one conversation and calls deliver
// for every emitted batch until ctx is cancelled. A non-nil error delivery
// reports a transport-level failure; the stream is not retried here.
type StreamFunc func(ctx context.Context, conversationID string, deliver DeliverFunc)

type DeliverFunc func(batch MessageBatch, err error)

// ListenerManager owns at most one live message-stream subscription. It is
// the single writer of the "currently active conversation" reference;
// deliveries only read it. A delivery whose conversation no longer matches
// the active one is discarded, which guards against a stale stream racing a
// conversation switch.
type ListenerManager struct {
	mu        sync.Mutex
	stream    StreamFunc
	apply     func(MessageBatch)
	onError   func(conversationID string, err error)
	currentID string
	cancel    context.CancelFunc
}

func NewListenerManager(stream StreamFunc, apply func(MessageBatch), onError func(conversationID string, err error)) *ListenerManager {
	if onError == nil {
		onError = func(conversationID string, err error) {
			logger.Error("Message stream for conversation %s failed: %v", conversationID, err)
		}
	}

	return &ListenerManager{
		stream:  stream,
		apply:   apply,
		onError: onError,
	}
}

// Activate switches the live subscription to the given conversation.
// Re-activating the current conversation is a no-op; switching tears the old
// stream down exactly once before the new one is set up.
func (m *ListenerManager) Activate(conversationID string) {
	m.mu.Lock()

	if m.currentID == conversationID && m.cancel != nil {
		m.mu.Unlock()
		return
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.currentID = conversationID
	m.cancel = cancel
	m.mu.Unlock()

	go m.stream(ctx, conversationID, m.deliver)
}

// Deactivate tears down the active subscription. Safe to call when idle.
func (m *ListenerManager) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.currentID = ""
}

// CurrentID returns the active conversation ID, or "" when idle.
func (m *ListenerManager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

func (m *ListenerManager) deliver(batch MessageBatch, err error) {
	m.mu.Lock()
	if m.currentID != batch.ConversationID {
		m.mu.Unlock()
		logger.Debug("Discarding stale delivery for conversation %s", batch.ConversationID)
		return
	}
	m.mu.Unlock()

	if err != nil {
		m.onError(batch.ConversationID, err)
		return
	}

	m.apply(batch)
}
