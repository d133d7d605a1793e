package usecase

import (
	"adboard/internal/domain/entity"
)

// UnreadSummary holds the total unread conversation count plus per-entry
// counts keyed by "{peerID}-{adID}".
type UnreadSummary struct {
	Total           int            `json:"total"`
	PerConversation map[string]int `json:"per_conversation"`
}

// ComputeUnread scans a snapshot of the user's conversations and counts the
// ones whose last message was sent by the peer and is still unread. Pure
// function, no I/O.
//
// Conversations with malformed IDs still count toward the total but are left
// out of the per-conversation map, since the peer/ad key cannot be derived.
// Total >= sum(PerConversation) always holds.
func ComputeUnread(userID string, convs []*entity.Conversation) UnreadSummary {
	summary := UnreadSummary{
		PerConversation: make(map[string]int),
	}

	for _, conv := range convs {
		if conv.LastSender == userID || !conv.LastUnread {
			continue
		}

		summary.Total++

		highUID, lowUID, adID, err := entity.ParseConversationID(conv.ID)
		if err != nil {
			continue
		}

		peerID := highUID
		if peerID == userID {
			peerID = lowUID
		}

		summary.PerConversation[peerID+"-"+adID]++
	}

	return summary
}
