package chat

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newConsumerForTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Chat{}, &models.ChatSession{}, &models.Message{},
	))

	hub := NewHub()
	go hub.Run()
	chats := services.NewChatService(db, 5*time.Minute, 30*time.Second)
	return NewConsumer(db, chats, hub), db
}

// readFrame pops the next queued frame for c, failing the test if none
// arrives.
func readFrame(t *testing.T, c *client) string {
	t.Helper()
	select {
	case frame := <-c.send:
		return string(frame)
	case <-time.After(time.Second):
		t.Fatal("no frame was delivered")
		return ""
	}
}

// An upgrade without a resolvable session must still complete the WebSocket
// handshake, then close with the application code so the browser can tell
// "log in first" apart from a network failure.
func TestServeClosesUnauthenticatedWithAppCode(t *testing.T) {
	consumer, _ := newConsumerForTest(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		consumer.Serve(w, r, 1)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "handshake itself must succeed")
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()

	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, CloseUnauthenticated, closeErr.Code)
}

// Bad frames are answered with an error frame on the same socket; the
// connection survives and keeps working.
func TestBadFramesKeepConnectionOpen(t *testing.T) {
	consumer, db := newConsumerForTest(t)

	user := &models.User{Username: "asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	room := &models.Chat{UserID: user.ID}
	require.NoError(t, db.Create(room).Error)

	c := &client{hub: consumer.hub, chatID: room.ID, username: user.Username, send: make(chan []byte, 8)}

	for _, raw := range []string{
		`{not json`,
		`{"type":"presence"}`,
		`{"type":"message","message":"   "}`,
	} {
		keepOpen := consumer.handleFrame(c, user, []byte(raw))
		assert.True(t, keepOpen, "frame %q must not close the socket", raw)
		assert.Contains(t, readFrame(t, c), `"error"`, "frame %q", raw)
	}

	var rows int64
	require.NoError(t, db.Model(&models.Message{}).Count(&rows).Error)
	assert.Zero(t, rows, "rejected frames must not persist anything")

	// The same socket still carries a valid message afterwards.
	keepOpen := consumer.handleFrame(c, user, []byte(`{"type":"message","message":"hello"}`))
	assert.True(t, keepOpen)
	assert.Contains(t, readFrame(t, c), `"message_sent"`)

	require.NoError(t, db.Model(&models.Message{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

// A forbidden chat closes exactly like a missing one, so probing other
// people's chat IDs over the socket learns nothing.
func TestHandshakeCloseCodeMasksForbidden(t *testing.T) {
	code, _ := handshakeCloseCode(services.ErrChatNotFound)
	assert.Equal(t, CloseNotFound, code)

	code, _ = handshakeCloseCode(services.ErrChatForbidden)
	assert.Equal(t, CloseNotFound, code)

	code, _ = handshakeCloseCode(errors.New("db exploded"))
	assert.Equal(t, CloseError, code)
}
