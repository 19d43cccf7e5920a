package services

import (
	"context"
	"errors"
	"strings"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// User service errors
var (
	ErrPhoneAlreadyExists = domain.New(domain.ErrConflict, "Phone number already in use")
	ErrNothingToUpdate    = domain.Invalid("No updatable fields provided")
)

// UserService handles self-service profile changes
type UserService struct {
	users repositories.UserRepository
	log   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// UpdateProfileInput lists the only fields a user may change about themselves.
// Role, email, password and farmer identifier are not reachable from here.
type UpdateProfileInput struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Region *string `json:"region"`
}

// UpdateProfile applies the provided fields and returns the stored profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	fields := make(map[string]interface{})

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Invalid("Name cannot be empty")
		}
		fields["name"] = name
	}

	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, domain.Invalid("Phone cannot be empty")
		}
		taken, err := s.users.ExistsByPhoneExcept(ctx, phone, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneAlreadyExists
		}
		fields["phone"] = phone
	}

	if input.Region != nil {
		region := strings.TrimSpace(*input.Region)
		if region == "" {
			return nil, domain.Invalid("Region cannot be empty")
		}
		fields["region"] = region
	}

	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneAlreadyExists
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info("profile updated", zap.Uint("user_id", userID), zap.Int("fields", len(fields)))
	return user.ToResponse(), nil
}
