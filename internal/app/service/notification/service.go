package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/tool"
)

var ErrNotFound = errors.New("notification not found")

// Service reads and marks per-user notifications. Writes mostly happen
// inside the approval workflow transaction; Notify is the out-of-band path.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Notify stores a message for a user.
func (s *Service) Notify(ctx context.Context, userID, title, message, link string) (*models.Notification, error) {
	if userID == "" || title == "" {
		return nil, fmt.Errorf("user id and title required")
	}
	n := &models.Notification{
		ID:      tool.GenerateUUIDV7(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// List returns the user's notifications, newest first. unreadOnly narrows
// to unread ones.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var items []*models.Notification
	if err := q.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkRead flips a single notification to read. Only the owner can touch
// it; anything else reports not found.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
