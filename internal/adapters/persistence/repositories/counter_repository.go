package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository hands out values of named sequences
type CounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next increments the named counter and returns the new value.
// The increment is a single UPDATE so concurrent callers never share a value;
// call it inside a transaction so the read sees this caller's own write.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: name}).Error; err != nil {
		return 0, err
	}

	if err := db.Model(&models.Counter{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
		return 0, err
	}

	var counter models.Counter
	if err := db.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// Peek returns the current value without incrementing it
func (r *CounterRepository) Peek(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&counter).Error
	return counter.Value, err
}
