package services_test

import (
	"testing"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatService(db *gorm.DB) *services.ChatService {
	return services.NewChatService(db, 5*time.Minute, 30*time.Second)
}

func TestEnsureChatIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	user := seedUser(t, db, "asha", false)

	first, err := chats.EnsureChat(user.ID)
	require.NoError(t, err)
	second, err := chats.EnsureChat(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, db.Model(&models.Chat{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestAccessControl(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	owner := seedUser(t, db, "asha", false)
	stranger := seedUser(t, db, "badru", false)
	staff := seedUser(t, db, "support", true)

	room, err := chats.EnsureChat(owner.ID)
	require.NoError(t, err)

	_, err = chats.Access(room.ID, owner)
	assert.NoError(t, err)
	_, err = chats.Access(room.ID, staff)
	assert.NoError(t, err)
	_, err = chats.Access(room.ID, stranger)
	assert.ErrorIs(t, err, services.ErrChatForbidden)
	_, err = chats.Access(999, owner)
	assert.ErrorIs(t, err, services.ErrChatNotFound)
}

func TestSaveMessageBumpsLastMessageAt(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	owner := seedUser(t, db, "asha", false)
	staff := seedUser(t, db, "support", true)

	room, err := chats.EnsureChat(owner.ID)
	require.NoError(t, err)
	require.Nil(t, room.LastMessageAt)

	msg, err := chats.SaveMessage(room.ID, owner.ID, "  hello there  ", false)
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Content)
	assert.False(t, msg.IsRead)

	var reloaded models.Chat
	require.NoError(t, db.First(&reloaded, room.ID).Error)
	require.NotNil(t, reloaded.LastMessageAt)

	// Staff replies are born read; the user asked for them.
	reply, err := chats.SaveMessage(room.ID, staff.ID, "how can I help?", true)
	require.NoError(t, err)
	assert.True(t, reply.IsRead)
}

func TestSaveMessageRejectsBlank(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	owner := seedUser(t, db, "asha", false)
	room, err := chats.EnsureChat(owner.ID)
	require.NoError(t, err)

	_, err = chats.SaveMessage(room.ID, owner.ID, "   \t\n  ", false)
	assert.ErrorIs(t, err, services.ErrEmptyMessage)

	var n int64
	require.NoError(t, db.Model(&models.Message{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestSaveMessageUnknownChat(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	user := seedUser(t, db, "asha", false)

	_, err := chats.SaveMessage(42, user.ID, "anyone home?", false)
	assert.ErrorIs(t, err, services.ErrChatNotFound)
}

func TestTouchUpsertsOneRow(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	owner := seedUser(t, db, "asha", false)
	room, err := chats.EnsureChat(owner.ID)
	require.NoError(t, err)

	require.NoError(t, chats.Touch(room.ID, owner.ID, true))
	require.NoError(t, chats.Touch(room.ID, owner.ID, false))

	var sessions []models.ChatSession
	require.NoError(t, db.Where("chat_id = ?", room.ID).Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].IsTyping)
	assert.WithinDuration(t, time.Now(), sessions[0].LastSeen, 5*time.Second)
}

func TestPresenceDerivedFromLastSeen(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	owner := seedUser(t, db, "asha", false)
	room, err := chats.EnsureChat(owner.ID)
	require.NoError(t, err)

	require.NoError(t, chats.Touch(room.ID, owner.ID, true))

	presence, err := chats.PresenceOf(room.ID)
	require.NoError(t, err)
	require.Len(t, presence, 1)
	assert.Equal(t, "asha", presence[0].Username)
	assert.True(t, presence[0].Online)
	assert.True(t, presence[0].Typing)

	// Two minutes of silence: inside the online window, outside the typing
	// window. The stored typing flag alone must not count.
	stale := time.Now().Add(-2 * time.Minute)
	require.NoError(t, db.Model(&models.ChatSession{}).
		Where("chat_id = ? AND user_id = ?", room.ID, owner.ID).
		Update("last_seen", stale).Error)

	presence, err = chats.PresenceOf(room.ID)
	require.NoError(t, err)
	require.Len(t, presence, 1)
	assert.True(t, presence[0].Online)
	assert.False(t, presence[0].Typing)

	// Ten minutes of silence: offline.
	gone := time.Now().Add(-10 * time.Minute)
	require.NoError(t, db.Model(&models.ChatSession{}).
		Where("chat_id = ? AND user_id = ?", room.ID, owner.ID).
		Update("last_seen", gone).Error)

	presence, err = chats.PresenceOf(room.ID)
	require.NoError(t, err)
	require.Len(t, presence, 1)
	assert.False(t, presence[0].Online)
	assert.False(t, presence[0].Typing)
}

func TestUnreadCountScoping(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	asha := seedUser(t, db, "asha", false)
	badru := seedUser(t, db, "badru", false)
	staff := seedUser(t, db, "support", true)

	roomA, err := chats.EnsureChat(asha.ID)
	require.NoError(t, err)
	roomB, err := chats.EnsureChat(badru.ID)
	require.NoError(t, err)

	_, err = chats.SaveMessage(roomA.ID, asha.ID, "my order is late", false)
	require.NoError(t, err)
	_, err = chats.SaveMessage(roomB.ID, badru.ID, "wrong colour", false)
	require.NoError(t, err)

	// Staff see the backlog across every chat; users only their own.
	n, err := chats.UnreadCount(staff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = chats.UnreadCount(asha)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n) // own messages don't count against you

	require.NoError(t, chats.MarkRead(roomA.ID, staff))
	n, err = chats.UnreadCount(staff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStaffInboxOrdersByRecency(t *testing.T) {
	db := newTestDB(t)
	chats := newChatService(db)
	asha := seedUser(t, db, "asha", false)
	badru := seedUser(t, db, "badru", false)

	roomA, err := chats.EnsureChat(asha.ID)
	require.NoError(t, err)
	roomB, err := chats.EnsureChat(badru.ID)
	require.NoError(t, err)

	earlier := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Chat{}).
		Where("id = ?", roomA.ID).Update("last_message_at", earlier).Error)
	require.NoError(t, db.Model(&models.Chat{}).
		Where("id = ?", roomB.ID).Update("last_message_at", time.Now()).Error)

	inbox, err := chats.StaffInbox()
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, roomB.ID, inbox[0].ID)
	assert.Equal(t, roomA.ID, inbox[1].ID)
}
