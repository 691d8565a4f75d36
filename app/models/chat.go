package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a support conversation between one end-user and staff.
type Chat struct {
	gorm.Model
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	LastMessageAt *time.Time `gorm:"index" json:"last_message_at"`

	User     User          `json:"user,omitempty"`
	Messages []Message     `json:"messages,omitempty"`
	Sessions []ChatSession `json:"sessions,omitempty"`
}

// Accessible reports whether u may attach to this chat: its owner or staff.
func (c *Chat) Accessible(u *User) bool {
	return u != nil && (u.Staff || c.UserID == u.ID)
}

// ChatSession is the per-(chat, user) presence row. LastSeen is bumped on
// every touch; online/typing are derived from it, never stored as truth.
type ChatSession struct {
	gorm.Model
	ChatID   uint      `gorm:"not null;index:idx_chat_user,unique" json:"chat_id"`
	UserID   uint      `gorm:"not null;index:idx_chat_user,unique" json:"user_id"`
	IsTyping bool      `gorm:"not null;default:false" json:"is_typing"`
	LastSeen time.Time `gorm:"not null" json:"last_seen"`

	User User `json:"user,omitempty"`
}

// Online reports whether the session was touched within window of now.
func (s *ChatSession) Online(now time.Time, window time.Duration) bool {
	return now.Sub(s.LastSeen) <= window
}

// Typing requires a stored typing flag AND a touch within window of now;
// a stale row with is_typing=true does not count.
func (s *ChatSession) Typing(now time.Time, window time.Duration) bool {
	return s.IsTyping && now.Sub(s.LastSeen) <= window
}

// Message is one chat line. Creating a message bumps the parent chat's
// LastMessageAt (done by the chat service inside the same transaction).
type Message struct {
	gorm.Model
	ChatID   uint   `gorm:"not null;index" json:"chat_id"`
	SenderID uint   `gorm:"not null;index" json:"sender_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	IsRead   bool   `gorm:"not null;default:false" json:"is_read"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
