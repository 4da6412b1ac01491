package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(channel string, buffer int) *Client {
	return &Client{channel: channel, send: make(chan []byte, buffer)}
}

func Test_Hub_BroadcastByChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	spins := newTestClient("spins", 8)
	other := newTestClient("other", 8)
	hub.Register(spins)
	hub.Register(other)

	hub.BroadcastByChannel("spins", []byte("hello"))

	select {
	case msg := <-spins.send:
		require.Equal(t, "hello", string(msg))
	case <-time.After(time.Second):
		require.FailNow(t, "no message delivered")
	}

	require.Empty(t, other.send)
}

func Test_Hub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := newTestClient("spins", 0)
	hub.Register(slow)

	hub.BroadcastByChannel("spins", []byte("first"))
	hub.BroadcastByChannel("spins", []byte("second"))

	select {
	case _, ok := <-slow.send:
		require.False(t, ok)
	case <-time.After(time.Second):
		require.FailNow(t, "send channel was not closed")
	}
}

func Test_Hub_ConcurrentRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Register(newTestClient("spins", 1))
		}()
		go func() {
			defer wg.Done()
			hub.BroadcastByChannel("spins", []byte("spin"))
		}()
	}

	wg.Wait()
}
