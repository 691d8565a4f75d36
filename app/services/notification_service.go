package services

import (
	"fmt"
	"sync"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/pkg/event"
	"gorm.io/gorm"
)

// EventNotificationCreated is fired on every persisted notification; boot
// code attaches listeners (mail, logging) without this package knowing.
const EventNotificationCreated = "notification.created"

// NotificationService persists notifications and pushes them to live SSE
// subscribers. Subscribers that fall behind miss pushes but never lose
// data: the row is already stored and shows up on the next list call.
type NotificationService struct {
	db *gorm.DB

	mu   sync.RWMutex
	subs map[uint]map[chan models.Notification]struct{}
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:   db,
		subs: make(map[uint]map[chan models.Notification]struct{}),
	}
}

// Notify stores a notification and fans it out.
func (s *NotificationService) Notify(userID uint, kind models.NotificationKind, title, body string) (*models.Notification, error) {
	n := &models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, fmt.Errorf("notifications: create: %w", err)
	}

	event.FireAsync(EventNotificationCreated, n)
	s.push(*n)
	return n, nil
}

// Subscribe registers a live feed for one user. The returned cancel func
// must be called when the consumer goes away.
func (s *NotificationService) Subscribe(userID uint) (<-chan models.Notification, func()) {
	ch := make(chan models.Notification, 16)

	s.mu.Lock()
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[chan models.Notification]struct{})
	}
	s.subs[userID][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if set, ok := s.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(s.subs, userID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *NotificationService) push(n models.Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subs[n.UserID] {
		select {
		case ch <- n:
		default:
			// Slow subscriber; it will catch up from the database.
		}
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("notifications: list for %d: %w", userID, err)
	}
	return out, nil
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("notifications: unread count: %w", err)
	}
	return n, nil
}

// MarkRead flags one notification (or all of the user's, if id is 0).
func (s *NotificationService) MarkRead(userID, id uint) error {
	q := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if id != 0 {
		q = q.Where("id = ?", id)
	}
	if err := q.Update("read", true).Error; err != nil {
		return fmt.Errorf("notifications: mark read: %w", err)
	}
	return nil
}
