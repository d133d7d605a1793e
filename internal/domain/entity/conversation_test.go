package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationID(t *testing.T) {
	t.Run("greater participant comes first", func(t *testing.T) {
		assert.Equal(t, "B2.A1.L9", ConversationID("A1", "B2", "L9"))
	})

	t.Run("commutative in participants", func(t *testing.T) {
		assert.Equal(t,
			ConversationID("userA", "userB", "ad1"),
			ConversationID("userB", "userA", "ad1"),
		)
	})

	t.Run("different ads give different conversations", func(t *testing.T) {
		assert.NotEqual(t,
			ConversationID("userA", "userB", "ad1"),
			ConversationID("userA", "userB", "ad2"),
		)
	})

	t.Run("equal participants collapse", func(t *testing.T) {
		assert.Equal(t, "u1.u1.ad1", ConversationID("u1", "u1", "ad1"))
	})
}

func TestParseConversationID(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		high, low, adID, err := ParseConversationID(ConversationID("A1", "B2", "L9"))
		assert.NoError(t, err)
		assert.Equal(t, "B2", high)
		assert.Equal(t, "A1", low)
		assert.Equal(t, "L9", adID)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		for _, id := range []string{"", "justone", "two.parts", "a.b.c.d", ".b.c", "a..c", "a.b."} {
			_, _, _, err := ParseConversationID(id)
			assert.Error(t, err, "id %q should not parse", id)
		}
	})
}

func TestConversationParticipants(t *testing.T) {
	conv := &Conversation{ID: "B2.A1.L9", Users: []string{"A1", "B2"}}

	assert.True(t, conv.HasParticipant("A1"))
	assert.True(t, conv.HasParticipant("B2"))
	assert.False(t, conv.HasParticipant("C3"))

	assert.Equal(t, "B2", conv.Peer("A1"))
	assert.Equal(t, "A1", conv.Peer("B2"))
}
