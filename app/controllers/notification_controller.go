package controllers

import (
	"net/http"
	"time"

	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/sse"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (nc *NotificationController) List(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	list, err := nc.notifications.List(user.ID, c.Query("unread") == "1")
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load notifications")
		return
	}
	unread, _ := nc.notifications.UnreadCount(user.ID)
	c.Success(map[string]any{"notifications": list, "unread": unread})
}

func (nc *NotificationController) MarkRead(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	// id 0 (the /read-all route) marks everything.
	var id uint
	if c.Param("id") != "" {
		parsed, ok := paramUint(c, "id")
		if !ok {
			return
		}
		id = parsed
	}

	if err := nc.notifications.MarkRead(user.ID, id); err != nil {
		c.Error(http.StatusInternalServerError, "could not mark as read")
		return
	}
	c.Success(map[string]any{"read": true})
}

// Stream pushes the user's notifications live over SSE, with a periodic
// comment as keepalive. The connection ends when the client goes away.
func (nc *NotificationController) Stream(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	stream := sse.New(c.W, c.R)
	if stream == nil {
		return
	}

	feed, cancel := nc.notifications.Subscribe(user.ID)
	defer cancel()

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	stream.Comment("connected")
	for {
		select {
		case n := <-feed:
			if err := stream.Send("notification", n); err != nil {
				return
			}
		case <-keepalive.C:
			stream.Comment("ping")
		case <-c.R.Context().Done():
			return
		}
		if stream.IsClosed() {
			return
		}
	}
}
