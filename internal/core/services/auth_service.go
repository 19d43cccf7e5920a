package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/jwt"
	"agriconnect/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserAlreadyExists  = domain.New(domain.ErrConflict, "User already exists")
	ErrInvalidCredentials = domain.New(domain.ErrInvalidCredentials, "Invalid credentials")
	ErrUserNotFound       = domain.New(domain.ErrNotFound, "User not found")
)

// AuthService handles signup, login and the current identity
type AuthService struct {
	db    *gorm.DB
	users repositories.UserRepository
	cfg   *config.Config
	log   *zap.Logger
	now   func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{
		db:    db,
		users: repositories.NewUserRepository(db),
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// SignupInput represents registration input
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Region   string `json:"region"`
}

// SignupResult identifies the created account
type SignupResult struct {
	UserID   uint   `json:"userId"`
	FarmerID string `json:"farmerId,omitempty"`
}

// LoginInput represents login input
type LoginInput struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token string               `json:"token"`
	User  *models.UserResponse `json:"user"`
}

// FarmerCounterName is the counter row backing a year's farmer identifiers
func FarmerCounterName(year int) string {
	return fmt.Sprintf("farmer_id:%d", year)
}

// FormatFarmerID renders FARM-<year>-<4-digit seq>
func FormatFarmerID(year int, seq int64) string {
	return fmt.Sprintf("FARM-%d-%04d", year, seq)
}

func (in *SignupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Region = strings.TrimSpace(in.Region)
}

func (in *SignupInput) validate() error {
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" || in.Role == "" {
		return domain.Invalid("Please provide name, email, phone, password and role")
	}
	if !strings.Contains(in.Email, "@") {
		return domain.Invalid("Invalid email address")
	}
	if !password.ValidatePassword(in.Password) {
		return domain.Invalid("Password must be at least 6 characters")
	}
	if !domain.Role(in.Role).Valid() {
		return domain.Invalid("Role must be farmer, agent or admin")
	}
	return nil
}

// Signup registers a new user. Farmers receive the next identifier of the current year.
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*SignupResult, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, input.Email, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hashedPassword,
		Role:     input.Role,
		Region:   input.Region,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if domain.Role(user.Role) == domain.RoleFarmer {
			year := s.now().Year()
			seq, err := repositories.NewCounterRepository(tx).Next(ctx, FarmerCounterName(year))
			if err != nil {
				return err
			}
			farmerID := FormatFarmerID(year, seq)
			user.FarmerCode = &farmerID
		}
		return repositories.NewUserRepository(tx).Create(ctx, user)
	})
	if err != nil {
		// a concurrent signup won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	result := &SignupResult{UserID: user.ID}
	if user.FarmerCode != nil {
		result.FarmerID = *user.FarmerCode
	}

	s.log.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.String("farmer_id", result.FarmerID),
	)
	return result, nil
}

// Login authenticates by email or phone. Unknown account and wrong password look the same.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	identity := strings.TrimSpace(input.EmailOrPhone)
	if identity == "" || input.Password == "" {
		return nil, domain.Invalid("Please provide email or phone and password")
	}
	if strings.Contains(identity, "@") {
		identity = strings.ToLower(identity)
	}

	user, err := s.users.GetByEmailOrPhone(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))

	return &AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// NextFarmerID previews the identifier the next farmer signing up in year would get
func (s *AuthService) NextFarmerID(ctx context.Context, year int) (string, error) {
	current, err := repositories.NewCounterRepository(s.db).Peek(ctx, FarmerCounterName(year))
	if err != nil {
		return "", err
	}
	return FormatFarmerID(year, current+1), nil
}

// Seed signs up each user that does not exist yet and reports how many were created
func (s *AuthService) Seed(ctx context.Context, users []config.SeedUser) (int, error) {
	created := 0
	for _, u := range users {
		_, err := s.Signup(ctx, &SignupInput{
			Name:     u.Name,
			Email:    u.Email,
			Phone:    u.Phone,
			Password: u.Password,
			Role:     u.Role,
			Region:   u.Region,
		})
		if errors.Is(err, ErrUserAlreadyExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", u.Email, err)
		}
		created++
	}

	s.log.Info("seed completed", zap.Int("created", created), zap.Int("requested", len(users)))
	return created, nil
}
