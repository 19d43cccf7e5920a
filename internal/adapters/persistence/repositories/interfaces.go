package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	ExistsByPhoneExcept(ctx context.Context, phone string, id uint) (bool, error)
	ListAgentsInRegion(ctx context.Context, region string) ([]*models.User, error)
}
