package websocket

import (
	"encoding/json"
	"time"

	"adboard/internal/domain/entity"
)

// Client -> server event types
const (
	EventPing               = "ping"
	EventOpenConversation   = "open_conversation"
	EventCloseConversation  = "close_conversation"
	EventSendMessage        = "send_message"
	EventMarkRead           = "mark_read"
	EventDeleteConversation = "delete_conversation"
)

// Server -> client event types
const (
	EventPong               = "pong"
	EventMessageBatch       = "message_batch"
	EventMessagePending     = "message_pending"
	EventMessageCommitted   = "message_committed"
	EventMessageFailed      = "message_failed"
	EventConversationClosed = "conversation_closed"
	EventPresence           = "presence"
	EventUnread             = "unread"
	EventError              = "error"
)

type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type OpenConversationData struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageData struct {
	TempID         string `json:"temp_id"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

type MarkReadData struct {
	ConversationID string `json:"conversation_id"`
}

type DeleteConversationData struct {
	ConversationID string `json:"conversation_id"`
}

type MessageBatchData struct {
	ConversationID string            `json:"conversation_id"`
	Messages       []*entity.Message `json:"messages"`
}

type MessagePendingData struct {
	TempID         string `json:"temp_id"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	Sender         string `json:"sender"`
}

type MessageCommittedData struct {
	TempID  string          `json:"temp_id"`
	Message *entity.Message `json:"message"`
}

// MessageFailedData rolls a failed optimistic send back: the client removes
// the pending message and restores Text into the composer.
type MessageFailedData struct {
	TempID         string `json:"temp_id"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	Reason         string `json:"reason"`
}

type ConversationClosedData struct {
	ConversationID string `json:"conversation_id"`
	Reason         string `json:"reason"` // "deleted", "ad_removed"
}

type PresenceData struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// NewEvent marshals the payload into a timestamped event. Marshal failures
// are programming errors and yield an error event instead.
func NewEvent(eventType string, data interface{}) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		raw, _ = json.Marshal(ErrorData{Message: "internal encoding error"})
		eventType = EventError
	}

	return Event{
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
