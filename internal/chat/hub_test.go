package chat

import (
	"testing"
	"time"
)

func newTestClient(h *Hub, chatID uint, username string) *client {
	return &client{hub: h, chatID: chatID, username: username, send: make(chan []byte, 4)}
}

func TestHubBroadcastSkipsSender(t *testing.T) {
	h := NewHub()
	go h.Run()

	asha := newTestClient(h, 1, "asha")
	staff := newTestClient(h, 1, "support")
	h.register <- asha
	h.register <- staff

	h.Broadcast(1, "asha", []byte("hello"))

	select {
	case msg := <-staff.send:
		if string(msg) != "hello" {
			t.Fatalf("got %q, want %q", msg, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("frame never reached the other socket")
	}

	select {
	case msg := <-asha.send:
		t.Fatalf("sender received its own frame: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubScopesBroadcastToRoom(t *testing.T) {
	h := NewHub()
	go h.Run()

	inRoom := newTestClient(h, 1, "asha")
	elsewhere := newTestClient(h, 2, "badru")
	h.register <- inRoom
	h.register <- elsewhere

	h.Broadcast(1, "", []byte("room one only"))

	select {
	case <-inRoom.send:
	case <-time.After(time.Second):
		t.Fatal("frame never reached the room")
	}

	select {
	case msg := <-elsewhere.send:
		t.Fatalf("frame leaked into another room: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubNewerSocketReplacesOlder(t *testing.T) {
	h := NewHub()
	go h.Run()

	old := newTestClient(h, 1, "asha")
	h.register <- old

	replacement := newTestClient(h, 1, "asha")
	h.register <- replacement

	// The replaced socket's queue is closed and it closes as stale, so the
	// older tab can tell it was superseded rather than dropped.
	select {
	case _, ok := <-old.send:
		if ok {
			t.Fatal("expected the old send queue to be closed")
		}
		if old.closeCode != CloseStale {
			t.Fatalf("close code = %d, want %d", old.closeCode, CloseStale)
		}
	case <-time.After(time.Second):
		t.Fatal("old socket was never kicked")
	}

	// The old socket's deferred unregister must not evict the replacement.
	h.unregister <- old
	h.Broadcast(1, "", []byte("still here"))

	select {
	case msg := <-replacement.send:
		if string(msg) != "still here" {
			t.Fatalf("got %q, want %q", msg, "still here")
		}
	case <-time.After(time.Second):
		t.Fatal("replacement socket lost its room slot")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := newTestClient(h, 1, "asha")
	h.register <- c
	h.unregister <- c

	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatal("expected the send queue to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("unregister never closed the queue")
	}
}
