package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PredictionRepository stores prediction service answers
type PredictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create stores a prediction
func (r *PredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListByCrop lists a crop's predictions newest first
func (r *PredictionRepository) ListByCrop(ctx context.Context, cropID uint) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	err := r.db.WithContext(ctx).
		Where("crop_id = ?", cropID).
		Order("id DESC").
		Find(&predictions).Error
	return predictions, err
}
