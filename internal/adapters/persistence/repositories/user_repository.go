package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmailOrPhone gets a user whose email or phone equals the given value
func (r *userRepository) GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", emailOrPhone, emailOrPhone).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFields applies a column map to one user
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// ExistsByEmailOrPhone checks if either identity field is taken
func (r *userRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhoneExcept checks if another user already owns phone
func (r *userRepository) ExistsByPhoneExcept(ctx context.Context, phone string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("phone = ? AND id <> ?", phone, id).
		Count(&count).Error
	return count > 0, err
}

// ListAgentsInRegion lists agents whose region matches exactly, oldest first
func (r *userRepository) ListAgentsInRegion(ctx context.Context, region string) ([]*models.User, error) {
	var agents []*models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", string(domain.RoleAgent)).
		Where(ExactMatch(r.db, "region"), region).
		Order("id ASC").
		Find(&agents).Error
	return agents, err
}
