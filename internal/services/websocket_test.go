package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastToUserDropsSaturatedClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{ID: 7, Role: "user", Send: make(chan []byte, 1), Hub: hub}
	slow.Send <- []byte("backlog")
	healthy := &Client{ID: 7, Role: "user", Send: make(chan []byte, 4), Hub: hub}
	hub.clients[slow] = true
	hub.clients[healthy] = true

	hub.BroadcastToUser(7, []byte("update"))

	assert.NotContains(t, hub.clients, slow)
	assert.Contains(t, hub.clients, healthy)

	msg, open := <-healthy.Send
	require.True(t, open)
	assert.Equal(t, []byte("update"), msg)

	// The dropped client's channel is closed after its backlog.
	<-slow.Send
	_, open = <-slow.Send
	assert.False(t, open)
}

func TestBroadcastToRole(t *testing.T) {
	hub := NewHub()

	vendor := &Client{ID: 20, Role: "vendor", Send: make(chan []byte, 4), Hub: hub}
	user := &Client{ID: 10, Role: "user", Send: make(chan []byte, 4), Hub: hub}
	hub.clients[vendor] = true
	hub.clients[user] = true

	hub.BroadcastToRole("vendor", []byte("hello"))

	assert.Len(t, vendor.Send, 1)
	assert.Len(t, user.Send, 0)
}

func TestHubConcurrentBroadcasts(t *testing.T) {
	hub := NewHub()

	// Unbuffered channels with no reader force every broadcast down the
	// drop path, which mutates the client set.
	for i := 0; i < 16; i++ {
		client := &Client{ID: uint(i % 2), Role: "user", Send: make(chan []byte), Hub: hub}
		hub.clients[client] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToUser(0, []byte("m"))
			hub.BroadcastToRole("user", []byte("m"))
		}()
	}
	wg.Wait()

	assert.Empty(t, hub.clients)
}
