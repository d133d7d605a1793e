package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestManagerRegisterTracksConnections(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	first := &Client{UserID: "buyer", Send: make(chan []byte, 4)}
	second := &Client{UserID: "buyer", Send: make(chan []byte, 4)}

	m.Register(first)
	m.Register(second)
	waitFor(t, "both connections registered", func() bool { return m.IsOnline("buyer") })

	// The user stays online while any connection remains.
	m.Unregister(first)
	waitFor(t, "first connection removed", func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.clients["buyer"]) == 1
	})
	assert.True(t, m.IsOnline("buyer"))

	m.Unregister(second)
	waitFor(t, "user offline", func() bool { return !m.IsOnline("buyer") })
}

func TestManagerSendAfterUnregisterIsDropped(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client := &Client{UserID: "buyer", Send: make(chan []byte, 4)}
	m.Register(client)
	waitFor(t, "client registered", func() bool { return m.IsOnline("buyer") })

	m.Unregister(client)
	waitFor(t, "client unregistered", func() bool { return !m.IsOnline("buyer") })

	// A watcher callback can still fire after teardown; the late event is
	// dropped instead of hitting the closed queue.
	client.SendEvent(NewEvent(EventUnread, nil))
	m.SendToUser("buyer", NewEvent(EventUnread, nil))
}

func TestManagerCloseSendIdempotent(t *testing.T) {
	client := &Client{UserID: "buyer", Send: make(chan []byte, 4)}

	client.closeSend()
	client.closeSend()

	assert.False(t, client.enqueue([]byte("{}")))
}

func TestManagerShutdownClosesAllClients(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)

	client := &Client{UserID: "buyer", Send: make(chan []byte, 4)}
	m.Register(client)
	waitFor(t, "client registered", func() bool { return m.IsOnline("buyer") })

	cancel()
	waitFor(t, "send queue closed", func() bool { return !client.enqueue([]byte("{}")) })
	assert.False(t, m.IsOnline("buyer"))
}
