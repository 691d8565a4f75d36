package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/internal/chat"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

// ChatController exposes the support chat: the WebSocket endpoint plus the
// REST surface used to bootstrap the page (history, presence, unread
// badge).
type ChatController struct {
	chats    *services.ChatService
	consumer *chat.Consumer
}

func NewChatController(chats *services.ChatService, consumer *chat.Consumer) *ChatController {
	return &ChatController{chats: chats, consumer: consumer}
}

// Socket upgrades to WebSocket. Authentication happens inside the consumer
// via the session_key query parameter, so this route is mounted without
// RequireAuth: failures must arrive as WebSocket close codes, not HTTP 401s.
func (ch *ChatController) Socket(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "chat")
	chatID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || chatID == 0 {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}
	ch.consumer.Serve(w, r, uint(chatID))
}

// My returns (creating if needed) the user's own support chat with its
// recent messages and presence.
func (ch *ChatController) My(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	room, err := ch.chats.EnsureChat(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not open chat")
		return
	}
	ch.roomPayload(c, room.ID)
}

// Show returns any chat's bootstrap payload; the owner or staff only.
func (ch *ChatController) Show(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	chatID, ok := paramUint(c, "chat")
	if !ok {
		return
	}

	if _, err := ch.chats.Access(chatID, user); err != nil {
		ch.accessFail(c, err)
		return
	}
	ch.roomPayload(c, chatID)
}

func (ch *ChatController) roomPayload(c *ctx.Context, chatID uint) {
	messages, err := ch.chats.Messages(chatID, 100)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load messages")
		return
	}
	presence, err := ch.chats.PresenceOf(chatID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load presence")
		return
	}
	c.Success(map[string]any{
		"chat_id":  chatID,
		"messages": messages,
		"presence": presence,
	})
}

// Presence reports derived online/typing status for one chat.
func (ch *ChatController) Presence(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	chatID, ok := paramUint(c, "chat")
	if !ok {
		return
	}

	if _, err := ch.chats.Access(chatID, user); err != nil {
		ch.accessFail(c, err)
		return
	}

	presence, err := ch.chats.PresenceOf(chatID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load presence")
		return
	}
	c.Success(presence)
}

// MarkRead flags the other side's messages as read.
func (ch *ChatController) MarkRead(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	chatID, ok := paramUint(c, "chat")
	if !ok {
		return
	}

	if _, err := ch.chats.Access(chatID, user); err != nil {
		ch.accessFail(c, err)
		return
	}
	if err := ch.chats.MarkRead(chatID, user); err != nil {
		c.Error(http.StatusInternalServerError, "could not mark as read")
		return
	}
	c.Success(map[string]any{"read": true})
}

// UnreadCount backs the header badge.
func (ch *ChatController) UnreadCount(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	n, err := ch.chats.UnreadCount(user)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not count unread")
		return
	}
	c.Success(map[string]any{"unread": n})
}

// Inbox lists every chat for the staff support view.
func (ch *ChatController) Inbox(c *ctx.Context) {
	chats, err := ch.chats.StaffInbox()
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load chats")
		return
	}
	c.Success(chats)
}

func (ch *ChatController) accessFail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		c.NotFound("chat not found")
	case errors.Is(err, services.ErrChatForbidden):
		c.Forbidden()
	default:
		c.Error(http.StatusInternalServerError, "chat unavailable")
	}
}
