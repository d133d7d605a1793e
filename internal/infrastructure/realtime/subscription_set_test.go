package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionSetCancelAll(t *testing.T) {
	set := NewSubscriptionSet()

	cancelled := 0
	for i := 0; i < 3; i++ {
		set.Add(func() { cancelled++ })
	}
	assert.Equal(t, 3, set.Len())

	set.CancelAll()
	assert.Equal(t, 3, cancelled)
	assert.Equal(t, 0, set.Len())

	// A second CancelAll must not re-invoke released handles.
	set.CancelAll()
	assert.Equal(t, 3, cancelled)
}

func TestSubscriptionSetAddAfterCancel(t *testing.T) {
	set := NewSubscriptionSet()

	first := false
	set.Add(func() { first = true })
	set.CancelAll()
	assert.True(t, first)

	second := false
	set.Add(func() { second = true })
	assert.Equal(t, 1, set.Len())

	set.CancelAll()
	assert.True(t, second)
}
