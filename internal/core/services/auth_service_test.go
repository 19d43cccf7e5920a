package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(name, role string) *SignupInput {
	return &SignupInput{
		Name:     name,
		Email:    name + "@example.com",
		Phone:    "555-" + name,
		Password: "secret123",
		Role:     role,
		Region:   "North",
	}
}

func TestSignupDuplicateEmailOrPhone(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	_, err := svc.Signup(f.ctx, signup("asha", "farmer"))
	require.NoError(t, err)

	sameEmail := signup("asha", "farmer")
	sameEmail.Phone = "555-other"
	_, err = svc.Signup(f.ctx, sameEmail)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	samePhone := signup("other", "agent")
	samePhone.Phone = "555-asha"
	_, err = svc.Signup(f.ctx, samePhone)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignupFarmerIDSequence(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)
	year := time.Now().Year()

	for i := 1; i <= 5; i++ {
		res, err := svc.Signup(f.ctx, signup(fmt.Sprintf("farmer%d", i), "farmer"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FARM-%d-%04d", year, i), res.FarmerID)
	}

	// agents never consume the sequence
	res, err := svc.Signup(f.ctx, signup("agent1", "agent"))
	require.NoError(t, err)
	assert.Empty(t, res.FarmerID)

	next, err := svc.NextFarmerID(f.ctx, year)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FARM-%d-0006", year), next)
}

func TestSignupSequenceRestartsEachYear(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	svc.now = func() time.Time { return time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC) }
	res, err := svc.Signup(f.ctx, signup("old", "farmer"))
	require.NoError(t, err)
	assert.Equal(t, "FARM-2024-0001", res.FarmerID)

	svc.now = func() time.Time { return time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC) }
	res, err = svc.Signup(f.ctx, signup("new", "farmer"))
	require.NoError(t, err)
	assert.Equal(t, "FARM-2025-0001", res.FarmerID)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	tests := []struct {
		name  string
		input *SignupInput
	}{
		{"missing name", &SignupInput{Email: "a@b.c", Phone: "1", Password: "secret123", Role: "farmer"}},
		{"bad email", &SignupInput{Name: "a", Email: "nope", Phone: "1", Password: "secret123", Role: "farmer"}},
		{"short password", &SignupInput{Name: "a", Email: "a@b.c", Phone: "1", Password: "123", Role: "farmer"}},
		{"unknown role", &SignupInput{Name: "a", Email: "a@b.c", Phone: "1", Password: "secret123", Role: "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(f.ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	_, err := svc.Signup(f.ctx, signup("ravi", "agent"))
	require.NoError(t, err)

	_, wrongPassword := svc.Login(f.ctx, &LoginInput{EmailOrPhone: "ravi@example.com", Password: "nope"})
	_, unknownUser := svc.Login(f.ctx, &LoginInput{EmailOrPhone: "ghost@example.com", Password: "secret123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginByEmailOrPhoneIssuesToken(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	created, err := svc.Signup(f.ctx, signup("meera", "farmer"))
	require.NoError(t, err)

	for _, identity := range []string{"MEERA@example.com", "555-meera"} {
		res, err := svc.Login(f.ctx, &LoginInput{EmailOrPhone: identity, Password: "secret123"})
		require.NoError(t, err, identity)
		assert.Equal(t, created.UserID, res.User.ID)
		assert.Equal(t, created.FarmerID, res.User.FarmerID)

		claims, err := jwt.ValidateAccessToken(res.Token, f.cfg.JWT.Secret)
		require.NoError(t, err)
		assert.Equal(t, created.UserID, claims.UserID)
		assert.Equal(t, "farmer", claims.Role)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	}
}

func TestMeUnknownUser(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	_, err := svc.Me(f.ctx, 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	created, err := svc.Seed(f.ctx, config.DemoUsers())
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = svc.Seed(f.ctx, config.DemoUsers())
	require.NoError(t, err)
	assert.Zero(t, created)

	var farmer models.User
	require.NoError(t, f.db.Where("role = ?", "farmer").First(&farmer).Error)
	require.NotNil(t, farmer.FarmerCode)
	assert.Contains(t, *farmer.FarmerCode, "FARM-")
}

func TestSeedStopsOnInvalidUser(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.cfg, f.log)

	_, err := svc.Seed(f.ctx, []config.SeedUser{{Name: "x", Email: "x@example.com", Phone: "1", Password: "short", Role: "farmer"}})
	assert.Error(t, err)
}
