package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain/entity"
)

// fakeStream records every stream the manager opens and lets tests deliver
// batches and observe teardown.
type fakeStream struct {
	mu      sync.Mutex
	streams []*streamHandle
}

type streamHandle struct {
	conversationID string
	ctx            context.Context
	deliver        DeliverFunc
}

func (f *fakeStream) fn() StreamFunc {
	return func(ctx context.Context, conversationID string, deliver DeliverFunc) {
		f.mu.Lock()
		f.streams = append(f.streams, &streamHandle{
			conversationID: conversationID,
			ctx:            ctx,
			deliver:        deliver,
		})
		f.mu.Unlock()
		<-ctx.Done()
	}
}

func (f *fakeStream) waitForStreams(t *testing.T, n int) []*streamHandle {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.streams) >= n {
			out := append([]*streamHandle(nil), f.streams...)
			f.mu.Unlock()
			return out
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d streams to open", n)
	return nil
}

type batchRecorder struct {
	mu      sync.Mutex
	batches []MessageBatch
}

func (r *batchRecorder) apply(batch MessageBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
}

func (r *batchRecorder) snapshot() []MessageBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MessageBatch(nil), r.batches...)
}

func TestListenerManagerActivate(t *testing.T) {
	stream := &fakeStream{}
	rec := &batchRecorder{}
	m := NewListenerManager(stream.fn(), rec.apply, nil)
	defer m.Deactivate()

	m.Activate("convA")
	handles := stream.waitForStreams(t, 1)
	assert.Equal(t, "convA", handles[0].conversationID)
	assert.Equal(t, "convA", m.CurrentID())

	handles[0].deliver(MessageBatch{
		ConversationID: "convA",
		Messages:       []*entity.Message{{ID: "m1", Text: "hi"}},
	}, nil)

	batches := rec.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, "convA", batches[0].ConversationID)
}

func TestListenerManagerReactivateSameConversation(t *testing.T) {
	stream := &fakeStream{}
	m := NewListenerManager(stream.fn(), func(MessageBatch) {}, nil)
	defer m.Deactivate()

	m.Activate("convA")
	stream.waitForStreams(t, 1)

	// Re-activating the open conversation must not restart the stream.
	m.Activate("convA")
	time.Sleep(20 * time.Millisecond)

	stream.mu.Lock()
	count := len(stream.streams)
	stream.mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestListenerManagerSwitchTearsDownOldStream(t *testing.T) {
	stream := &fakeStream{}
	rec := &batchRecorder{}
	m := NewListenerManager(stream.fn(), rec.apply, nil)
	defer m.Deactivate()

	m.Activate("convA")
	handles := stream.waitForStreams(t, 1)
	oldHandle := handles[0]

	m.Activate("convB")
	handles = stream.waitForStreams(t, 2)
	assert.Equal(t, "convB", handles[1].conversationID)
	assert.Equal(t, "convB", m.CurrentID())

	select {
	case <-oldHandle.ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("old stream context was not cancelled on switch")
	}

	// A delivery from the replaced stream must be discarded.
	oldHandle.deliver(MessageBatch{
		ConversationID: "convA",
		Messages:       []*entity.Message{{ID: "stale"}},
	}, nil)

	handles[1].deliver(MessageBatch{
		ConversationID: "convB",
		Messages:       []*entity.Message{{ID: "fresh"}},
	}, nil)

	batches := rec.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, "convB", batches[0].ConversationID)
	assert.Equal(t, "fresh", batches[0].Messages[0].ID)
}

func TestListenerManagerDeactivate(t *testing.T) {
	stream := &fakeStream{}
	rec := &batchRecorder{}
	m := NewListenerManager(stream.fn(), rec.apply, nil)

	m.Activate("convA")
	handles := stream.waitForStreams(t, 1)

	m.Deactivate()
	assert.Equal(t, "", m.CurrentID())

	select {
	case <-handles[0].ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stream context was not cancelled on deactivate")
	}

	handles[0].deliver(MessageBatch{ConversationID: "convA"}, nil)
	assert.Empty(t, rec.snapshot())

	// Deactivating when idle is safe.
	m.Deactivate()
}

func TestListenerManagerErrorDelivery(t *testing.T) {
	stream := &fakeStream{}

	var mu sync.Mutex
	var failedConv string
	m := NewListenerManager(stream.fn(), func(MessageBatch) {
		t.Error("apply must not run for an error delivery")
	}, func(conversationID string, err error) {
		mu.Lock()
		failedConv = conversationID
		mu.Unlock()
	})
	defer m.Deactivate()

	m.Activate("convA")
	handles := stream.waitForStreams(t, 1)

	handles[0].deliver(MessageBatch{ConversationID: "convA"}, assert.AnError)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "convA", failedConv)
}
