package services

import (
	"context"

	apperrors "rewards/errors"
	"rewards/models"

	"gorm.io/gorm"
)

// InboxService reads the notifications stored for a user.
type InboxService struct {
	db *gorm.DB
}

func NewInboxService(db *gorm.DB) *InboxService {
	return &InboxService{db: db}
}

// List returns the user's notifications, newest first, with the unread count.
func (s *InboxService) List(ctx context.Context, userID uint, page, limit int) ([]models.Notification, int64, int64, error) {
	page, limit = normalizePage(page, limit)
	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total, unread int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, apperrors.DB("failed to count notifications", err)
	}
	if err := query.Session(&gorm.Session{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
		return nil, 0, 0, apperrors.DB("failed to count unread notifications", err)
	}

	var items []models.Notification
	if err := query.Session(&gorm.Session{}).
		Order("created_at DESC").Order("id DESC").
		Offset(page * limit).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, 0, apperrors.DB("failed to list notifications", err)
	}
	return items, total, unread, nil
}

// MarkAllRead đánh dấu đã đọc toàn bộ thông báo của user
func (s *InboxService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, apperrors.DB("failed to mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}
