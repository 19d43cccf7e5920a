package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PaymentRepository handles payment data access. Payments are insert-only.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment with its crop and farmer
func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Crop").
		Preload("Farmer", publicUserColumns("name", "phone", "region", "farmer_code")).
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByFarmer lists a farmer's payments newest first
func (r *PaymentRepository) ListByFarmer(ctx context.Context, farmerID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Preload("Crop").
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// ListForAgent lists payments whose crop is assigned to the agent.
// The inner join drops payments whose crop no longer resolves.
func (r *PaymentRepository) ListForAgent(ctx context.Context, agentID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN crops ON crops.id = payments.crop_id").
		Where("crops.agent_id = ?", agentID).
		Preload("Crop").
		Preload("Farmer", publicUserColumns("name", "phone", "region", "farmer_code")).
		Order("payments.created_at DESC, payments.id DESC").
		Find(&payments).Error
	return payments, err
}
