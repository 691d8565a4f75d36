// Package chat implements the live support chat over gorilla/websocket:
// a room-per-chat hub, the socket consumer, and the wire frames.
//
// The hub only decides which open sockets receive a frame. Presence
// (online/typing) is derived from persisted session rows, not from hub
// membership, so every process in a multi-process deployment reports the
// same status regardless of which one holds a given socket.
package chat

import (
	"time"

	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64 KB
)

// Application close codes sent before tearing down a handshake or an
// established connection.
const (
	CloseError           = 4000 // internal failure while serving the socket
	CloseUnauthenticated = 4001 // no resolvable user on the handshake
	CloseStale           = 4003 // superseded by a newer socket for the same user
	CloseNotFound        = 4004 // chat missing, or the user is not allowed in it
)

// client is one open socket inside a room. A user holds at most one socket
// per room; a newer connection replaces the older one.
type client struct {
	hub      *Hub
	chatID   uint
	username string
	conn     *websocket.Conn
	send     chan []byte

	// closeCode, when set before send is closed, becomes the close frame
	// writePump emits on shutdown. The channel close orders the write.
	closeCode int
}

// readPump pumps frames from the socket to the hub until the connection
// drops or the peer misbehaves.
func (c *client) readPump(onFrame func([]byte) bool) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("chat: unexpected close", "chat_id", c.chatID, "user", c.username, "error", err)
			}
			return
		}
		if !onFrame(raw) {
			return
		}
	}
}

// writePump drains the send queue to the socket and keeps the connection
// alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				payload := []byte{}
				if c.closeCode != 0 {
					payload = websocket.FormatCloseMessage(c.closeCode, "")
				}
				c.conn.WriteMessage(websocket.CloseMessage, payload)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver queues a frame for this client, dropping it if the buffer is full.
func (c *client) deliver(data []byte) {
	select {
	case c.send <- data:
	default:
		// Slow consumer — drop the frame rather than block the hub.
	}
}

// envelope is a fan-out request: a frame bound for one room, optionally
// skipping one username (typically the sender).
type envelope struct {
	chatID uint
	except string
	data   []byte
}

// Hub tracks open sockets per chat room and fans frames out to them.
// All registry access happens on the Run goroutine, so membership is
// re-checked at the moment of delivery: a socket that unregistered between
// send and fan-out simply receives nothing.
type Hub struct {
	rooms      map[uint]map[string]*client
	register   chan *client
	unregister chan *client
	outbound   chan envelope
}

// NewHub creates a hub. Call Run in its own goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[string]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		outbound:   make(chan envelope, 256),
	}
}

// Run drives the hub event loop.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			room := h.rooms[c.chatID]
			if room == nil {
				room = make(map[string]*client)
				h.rooms[c.chatID] = room
			}
			if prev, ok := room[c.username]; ok && prev != c {
				// Newer socket wins; the old one is told it went stale.
				prev.closeCode = CloseStale
				close(prev.send)
			}
			room[c.username] = c
			logger.Info("chat: socket joined", "chat_id", c.chatID, "user", c.username, "room_size", len(room))

		case c := <-h.unregister:
			if room, ok := h.rooms[c.chatID]; ok {
				// Only drop the entry if it still points at this client;
				// a replacement socket may already own the slot.
				if cur, ok := room[c.username]; ok && cur == c {
					delete(room, c.username)
					close(c.send)
					if len(room) == 0 {
						delete(h.rooms, c.chatID)
					}
					logger.Info("chat: socket left", "chat_id", c.chatID, "user", c.username, "room_size", len(room))
				}
			}

		case env := <-h.outbound:
			for name, c := range h.rooms[env.chatID] {
				if name == env.except {
					continue
				}
				c.deliver(env.data)
			}
		}
	}
}

// Broadcast queues a frame for every socket in the room except the named
// user. Pass an empty except to reach everyone.
func (h *Hub) Broadcast(chatID uint, except string, data []byte) {
	h.outbound <- envelope{chatID: chatID, except: except, data: data}
}
