package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/config"
	"github.com/eventnest/eventnest/pkg/cache"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/session"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inboundFrame is what clients send: chat messages and typing updates.
type inboundFrame struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
}

// Consumer serves one chat room's WebSocket endpoint: it authenticates the
// handshake, attaches the socket to the hub, and translates frames into
// service calls.
type Consumer struct {
	db    *gorm.DB
	chats *services.ChatService
	hub   *Hub
}

func NewConsumer(db *gorm.DB, chats *services.ChatService, hub *Hub) *Consumer {
	return &Consumer{db: db, chats: chats, hub: hub}
}

// presenceKey is the Redis heartbeat key for one user in one chat. Its TTL
// is the online window, so expiry and the LastSeen cutoff agree.
func presenceKey(chatID, userID uint) string {
	return fmt.Sprintf("eventnest:presence:chat:%d:user:%d", chatID, userID)
}

// closeWith sends an application close frame and tears the socket down.
func closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}

// Serve upgrades the request and runs the socket until it closes.
//
// Authentication uses the session_key query parameter rather than the
// cookie: the handshake is upgraded first so the application close code
// (4001/4004/4003) reaches the client instead of a bare HTTP error.
func (cs *Consumer) Serve(w http.ResponseWriter, r *http.Request, chatID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("chat: upgrade failed", "error", err)
		return
	}

	user, ok := cs.resolveUser(r)
	if !ok {
		closeWith(conn, CloseUnauthenticated, "authentication required")
		return
	}

	if _, err := cs.chats.Access(chatID, user); err != nil {
		code, reason := handshakeCloseCode(err)
		if code == CloseError {
			logger.Error("chat: access check failed", "chat_id", chatID, "error", err)
		}
		closeWith(conn, code, reason)
		return
	}

	if err := cs.touch(chatID, user.ID, false); err != nil {
		logger.Error("chat: session touch failed", "chat_id", chatID, "error", err)
		closeWith(conn, CloseError, "internal error")
		return
	}

	c := &client{
		hub:      cs.hub,
		chatID:   chatID,
		username: user.Username,
		conn:     conn,
		send:     make(chan []byte, 256),
	}
	cs.hub.register <- c

	go c.writePump()
	go func() {
		c.readPump(func(raw []byte) bool {
			return cs.handleFrame(c, user, raw)
		})
		// Socket gone: persist that the user stopped typing. LastSeen
		// still decays on its own, which is what marks them offline.
		if err := cs.touch(chatID, user.ID, false); err != nil {
			logger.Warn("chat: disconnect touch failed", "chat_id", chatID, "error", err)
		}
	}()

	cs.sendEstablished(c, user)
}

// handshakeCloseCode maps an access-check failure to the close code the
// browser sees. A forbidden chat closes like a missing one, so probing for
// other people's chat IDs learns nothing.
func handshakeCloseCode(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		return CloseNotFound, "chat not found"
	case errors.Is(err, services.ErrChatForbidden):
		return CloseNotFound, "access denied"
	default:
		return CloseError, "internal error"
	}
}

// resolveUser authenticates the handshake from the session_key query
// parameter.
func (cs *Consumer) resolveUser(r *http.Request) (*models.User, bool) {
	sess, ok := session.Lookup(r.URL.Query().Get("session_key"))
	if !ok {
		return nil, false
	}
	userID, ok := sess.UserID()
	if !ok {
		return nil, false
	}
	var user models.User
	if err := cs.db.First(&user, userID).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// touch updates the persisted session row and refreshes the Redis
// heartbeat so presence reads stay cheap.
func (cs *Consumer) touch(chatID, userID uint, typing bool) error {
	if err := cs.chats.Touch(chatID, userID, typing); err != nil {
		return err
	}
	if err := cache.Heartbeat(presenceKey(chatID, userID), config.OnlineWindow()); err != nil {
		// Redis is an accelerator here, not the source of truth.
		logger.Warn("chat: heartbeat failed", "chat_id", chatID, "user_id", userID, "error", err)
	}
	return nil
}

// handleFrame processes one inbound frame. Bad frames earn an error frame
// and the connection stays up; returning false is reserved for faults that
// should tear the socket down.
func (cs *Consumer) handleFrame(c *client, user *models.User, raw []byte) bool {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		cs.fail(c, "malformed frame")
		return true
	}

	switch frame.Type {
	case "message":
		return cs.handleMessage(c, user, frame.Message)
	case "typing":
		return cs.handleTyping(c, user, frame.IsTyping)
	default:
		cs.fail(c, "unknown frame type")
		return true
	}
}

func (cs *Consumer) handleMessage(c *client, user *models.User, content string) bool {
	msg, err := cs.chats.SaveMessage(c.chatID, user.ID, content, user.Staff)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			cs.fail(c, "message cannot be empty")
		} else {
			logger.Error("chat: save message failed", "chat_id", c.chatID, "error", err)
			cs.fail(c, "could not save message")
		}
		return true
	}

	// Sending a message is activity.
	if err := cs.touch(c.chatID, user.ID, false); err != nil {
		logger.Warn("chat: touch after message failed", "chat_id", c.chatID, "error", err)
	}

	broadcast, _ := json.Marshal(map[string]interface{}{
		"type":       "message",
		"message_id": msg.ID,
		"chat_id":    c.chatID,
		"message":    msg.Content,
		"sender":     user.Username,
		"sender_id":  user.ID,
		"is_staff":   user.Staff,
		"timestamp":  msg.CreatedAt.Format(time.RFC3339),
	})
	cs.hub.Broadcast(c.chatID, user.Username, broadcast)

	ack, _ := json.Marshal(map[string]interface{}{
		"type":       "message_sent",
		"message_id": msg.ID,
		"timestamp":  msg.CreatedAt.Format(time.RFC3339),
	})
	c.deliver(ack)
	return true
}

func (cs *Consumer) handleTyping(c *client, user *models.User, typing bool) bool {
	if err := cs.touch(c.chatID, user.ID, typing); err != nil {
		logger.Error("chat: typing touch failed", "chat_id", c.chatID, "error", err)
		cs.fail(c, "could not update status")
		return true
	}

	frame, _ := json.Marshal(map[string]interface{}{
		"type":      "typing",
		"username":  user.Username,
		"user_id":   user.ID,
		"is_typing": typing,
	})
	cs.hub.Broadcast(c.chatID, user.Username, frame)
	return true
}

// sendEstablished confirms the connection and reports who is currently in
// the room, computed from persisted sessions.
func (cs *Consumer) sendEstablished(c *client, user *models.User) {
	presence, err := cs.chats.PresenceOf(c.chatID)
	if err != nil {
		logger.Warn("chat: presence load failed", "chat_id", c.chatID, "error", err)
		presence = nil
	}

	frame, _ := json.Marshal(map[string]interface{}{
		"type":     "connection_established",
		"chat_id":  c.chatID,
		"username": user.Username,
		"presence": presence,
	})
	c.deliver(frame)
}

// fail reports a recoverable fault on the error channel. The connection
// stays open; only transport faults close the socket.
func (cs *Consumer) fail(c *client, reason string) {
	frame, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": reason,
	})
	c.deliver(frame)
}
