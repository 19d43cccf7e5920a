package services

import (
	"context"
	"testing"
	"time"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:   "test-secret",
			TokenTTL: 7 * 24 * time.Hour,
		},
		Upload: config.UploadConfig{
			Dir:      t.TempDir(),
			MaxBytes: 10 << 20,
		},
		AgentAssignment: AssignLeastLoaded,
	}
}

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		t:   t,
		ctx: context.Background(),
		db:  testutil.NewDB(t),
		cfg: testConfig(t),
		log: zap.NewNop(),
	}
}

func (f *fixture) user(name string, role domain.Role, region string) *models.User {
	return testutil.CreateUser(f.t, f.db, &models.User{
		Name:   name,
		Email:  name + "@example.com",
		Phone:  "phone-" + name,
		Role:   string(role),
		Region: region,
	}, "secret123")
}

func (f *fixture) crop(farmer *models.User, agent *models.User, name string) *models.Crop {
	crop := &models.Crop{
		FarmerID:             farmer.ID,
		Name:                 name,
		Acres:                2,
		CultivationStartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:               string(domain.CropPending),
		LiveStatus:           string(domain.LiveActive),
	}
	if agent != nil {
		crop.AgentID = &agent.ID
	}
	require.NoError(f.t, f.db.Create(crop).Error)
	return crop
}

func (f *fixture) cropService(strategy string) *CropService {
	return NewCropService(f.db, NewAgentSelector(strategy, f.db), f.log)
}

func ptr[T any](v T) *T { return &v }
