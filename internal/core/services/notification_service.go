package services

import (
	"context"
	"errors"
	"strings"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/pagination"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notification errors
var (
	ErrNotificationIncomplete = domain.Invalid("Recipient and message are required")
	ErrInvalidRecipient       = domain.Invalid("Invalid recipient or recipient is not a farmer")
	ErrInvalidNotifyType      = domain.Invalid("Type must be alert, prediction, recommendation or general")
)

// NotificationService is the append-only outbox towards farmers
type NotificationService struct {
	notifications *repositories.NotificationRepository
	users         repositories.UserRepository
	log           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, log *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: repositories.NewNotificationRepository(db),
		users:         repositories.NewUserRepository(db),
		log:           log,
	}
}

// SendInput is the body of a notification sent by an agent or admin
type SendInput struct {
	To      uint   `json:"to"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NotificationList is one page of a recipient's notifications
type NotificationList struct {
	Notifications []*models.Notification `json:"notifications"`
	Pagination    *pagination.Meta       `json:"pagination"`
}

// Send appends a notification from senderID to a farmer
func (s *NotificationService) Send(ctx context.Context, senderID uint, input *SendInput) (*models.Notification, error) {
	message := strings.TrimSpace(input.Message)
	if input.To == 0 || message == "" {
		return nil, ErrNotificationIncomplete
	}

	kind := domain.NotifyGeneral
	if input.Type != "" {
		kind = domain.NotificationType(strings.ToLower(input.Type))
		if !kind.Valid() {
			return nil, ErrInvalidNotifyType
		}
	}

	recipient, err := s.users.GetByID(ctx, input.To)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRecipient
		}
		return nil, err
	}
	if domain.Role(recipient.Role) != domain.RoleFarmer {
		return nil, ErrInvalidRecipient
	}

	n := &models.Notification{
		ToID:    recipient.ID,
		FromID:  &senderID,
		Message: message,
		Type:    string(kind),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	s.log.Info("notification sent",
		zap.Uint("notification_id", n.ID),
		zap.Uint("from", senderID),
		zap.Uint("to", recipient.ID),
		zap.String("type", n.Type),
	)
	return n, nil
}

// GetMine returns a page of the recipient's notifications, newest first
func (s *NotificationService) GetMine(ctx context.Context, recipientID uint, params *pagination.Params) (*NotificationList, error) {
	items, total, err := s.notifications.ListByRecipient(ctx, recipientID, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Notification{}
	}
	return &NotificationList{
		Notifications: items,
		Pagination:    pagination.GetMeta(params, total),
	}, nil
}
