package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create appends a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByRecipient lists a recipient's notifications newest first
func (r *NotificationRepository) ListByRecipient(ctx context.Context, toID uint, offset, limit int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("to_id = ?", toID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Sender", publicUserColumns("name", "role")).
		Where("to_id = ?", toID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}
