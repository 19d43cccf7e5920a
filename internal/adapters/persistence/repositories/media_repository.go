package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// MediaRepository handles media data access
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create creates a new media record
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// ListByAgent lists uploads linked to the agent with the farmer populated
func (r *MediaRepository) ListByAgent(ctx context.Context, agentID uint) ([]*models.Media, error) {
	var media []*models.Media
	err := r.db.WithContext(ctx).
		Preload("Farmer", publicUserColumns("name", "phone")).
		Where("agent_id = ?", agentID).
		Order("created_at DESC, id DESC").
		Find(&media).Error
	return media, err
}

// ListByFarmer lists a farmer's own uploads
func (r *MediaRepository) ListByFarmer(ctx context.Context, farmerID uint) ([]*models.Media, error) {
	var media []*models.Media
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Find(&media).Error
	return media, err
}
