package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrChatNotFound  = errors.New("chat: not found")
	ErrChatForbidden = errors.New("chat: access denied")

	// ErrEmptyMessage rejects empty or whitespace-only content before any
	// row is written.
	ErrEmptyMessage = errors.New("chat: message cannot be empty")
)

// Presence is the derived per-user status for one chat. Online and typing
// are computed from the session's LastSeen recency at query time; the
// stored IsTyping flag alone is never trusted.
type Presence struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Online   bool      `json:"online"`
	Typing   bool      `json:"typing"`
	LastSeen time.Time `json:"last_seen"`
}

// ChatService owns chat persistence and the presence queries. Session rows
// are the shared source of truth for presence, so multi-process deployments
// agree regardless of which process holds a given socket.
type ChatService struct {
	db           *gorm.DB
	onlineWindow time.Duration
	typingWindow time.Duration
}

func NewChatService(db *gorm.DB, onlineWindow, typingWindow time.Duration) *ChatService {
	return &ChatService{db: db, onlineWindow: onlineWindow, typingWindow: typingWindow}
}

// EnsureChat returns the user's support chat, creating it on first use.
func (s *ChatService) EnsureChat(userID uint) (*models.Chat, error) {
	var chat models.Chat
	err := s.db.Where("user_id = ?", userID).First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		chat = models.Chat{UserID: userID}
		err = s.db.Create(&chat).Error
	}
	if err != nil {
		return nil, fmt.Errorf("chat: ensure for user %d: %w", userID, err)
	}
	return &chat, nil
}

// Access loads chatID and checks that user may attach: the chat's owner or
// any staff account.
func (s *ChatService) Access(chatID uint, user *models.User) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("chat: load %d: %w", chatID, err)
	}
	if !chat.Accessible(user) {
		return nil, ErrChatForbidden
	}
	return &chat, nil
}

// SaveMessage persists a message and bumps the chat's LastMessageAt in the
// same transaction. Messages from staff are born read (the user asked for
// them); user messages wait for staff to read them.
func (s *ChatService) SaveMessage(chatID, senderID uint, content string, senderIsStaff bool) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg := &models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		IsRead:   senderIsStaff,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, chatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChatNotFound
			}
			return fmt.Errorf("chat: load %d: %w", chatID, err)
		}

		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("chat: save message: %w", err)
		}

		now := time.Now()
		if err := tx.Model(&chat).Update("last_message_at", now).Error; err != nil {
			return fmt.Errorf("chat: bump last_message_at: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Touch upserts the (chat, user) session row: LastSeen moves to now and the
// typing flag is stored as given. The unique index on (chat_id, user_id)
// makes the upsert race-safe; concurrent touches are idempotent.
func (s *ChatService) Touch(chatID, userID uint, isTyping bool) error {
	now := time.Now()
	session := models.ChatSession{
		ChatID:   chatID,
		UserID:   userID,
		IsTyping: isTyping,
		LastSeen: now,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_typing", "last_seen", "updated_at"}),
	}).Create(&session).Error
	if err != nil {
		return fmt.Errorf("chat: touch session (%d,%d): %w", chatID, userID, err)
	}
	return nil
}

// PresenceOf computes derived presence for every session in the chat.
func (s *ChatService) PresenceOf(chatID uint) ([]Presence, error) {
	var sessions []models.ChatSession
	err := s.db.Preload("User").Where("chat_id = ?", chatID).Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("chat: load sessions for %d: %w", chatID, err)
	}

	now := time.Now()
	out := make([]Presence, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, Presence{
			UserID:   sess.UserID,
			Username: sess.User.Username,
			Online:   sess.Online(now, s.onlineWindow),
			Typing:   sess.Typing(now, s.typingWindow),
			LastSeen: sess.LastSeen,
		})
	}
	return out, nil
}

// Messages returns the chat's messages oldest-first, capped at limit.
func (s *ChatService) Messages(chatID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var msgs []models.Message
	err := s.db.Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("chat: list messages for %d: %w", chatID, err)
	}
	return msgs, nil
}

// UnreadCount counts messages not yet read and not sent by user. Staff see
// the total across all chats; regular users only their own chat's backlog.
func (s *ChatService) UnreadCount(user *models.User) (int64, error) {
	q := s.db.Model(&models.Message{}).
		Where("is_read = ? AND sender_id <> ?", false, user.ID)

	if !user.Staff {
		q = q.Joins("JOIN chats ON chats.id = messages.chat_id").
			Where("chats.user_id = ?", user.ID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("chat: unread count: %w", err)
	}
	return n, nil
}

// MarkRead flags everyone else's messages in the chat as read by user.
func (s *ChatService) MarkRead(chatID uint, user *models.User) error {
	err := s.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, user.ID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("chat: mark read: %w", err)
	}
	return nil
}

// StaffInbox lists every chat, most recent message first, for the staff
// support view.
func (s *ChatService) StaffInbox() ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.Preload("User").
		Order("last_message_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("chat: staff inbox: %w", err)
	}
	return chats, nil
}
