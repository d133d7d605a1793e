package entity

import (
	"fmt"
	"strings"
	"time"
)

// Conversation is the anchor record for a chat between two users about one ad.
// Its document ID is derived from the participants and the ad (see
// ConversationID), so at most one conversation exists per (pair, ad) triple.
// The last* fields are denormalized from the messages subcollection as a read
// optimization for inbox badges; they may lag behind briefly.
type Conversation struct {
	ID         string    `json:"id" firestore:"id"`
	Users      []string  `json:"users" firestore:"users"`
	AdID       string    `json:"ad_id" firestore:"ad"`
	LastText   string    `json:"last_text,omitempty" firestore:"lastText,omitempty"`
	LastSender string    `json:"last_sender,omitempty" firestore:"lastSender,omitempty"`
	LastUnread bool      `json:"last_unread" firestore:"lastUnread"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ConversationID derives the canonical conversation document ID for two
// participants and an ad. It is commutative in userA/userB: the greater ID
// (string order) always comes first, so both sides derive the same key.
// A self-chat (userA == userB) still produces a well-defined ID.
func ConversationID(userA, userB, adID string) string {
	if userA > userB {
		return userA + "." + userB + "." + adID
	}
	return userB + "." + userA + "." + adID
}

// ParseConversationID splits a conversation ID back into its components.
// IDs that do not decompose into exactly three parts are reported as
// malformed; callers decide how far to degrade (see unread aggregation).
func ParseConversationID(id string) (highUID, lowUID, adID string, err error) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed conversation id %q", id)
	}
	return parts[0], parts[1], parts[2], nil
}

// Peer returns the other participant from the user's point of view. For a
// degenerate self-chat both participants are the caller.
func (c *Conversation) Peer(userID string) string {
	for _, uid := range c.Users {
		if uid != userID {
			return uid
		}
	}
	return userID
}

// HasParticipant reports whether the user takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, uid := range c.Users {
		if uid == userID {
			return true
		}
	}
	return false
}
