package services

import (
	"context"
	"errors"
	"math"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Payment errors
var (
	ErrPaymentNotFound      = domain.New(domain.ErrNotFound, "Payment not found")
	ErrPaymentAccessDenied  = domain.New(domain.ErrForbidden, "Not authorized to view this payment")
	ErrEstimatedCostMissing = domain.Invalid("Crop and estimated cost are required")
)

// PaymentService computes and records billing events
type PaymentService struct {
	payments *repositories.PaymentRepository
	crops    *repositories.CropRepository
	log      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, log *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: repositories.NewPaymentRepository(db),
		crops:    repositories.NewCropRepository(db),
		log:      log,
	}
}

// CreatePaymentInput is entered by the crop's agent
type CreatePaymentInput struct {
	CropID        uint     `json:"cropId"`
	EstimatedCost *float64 `json:"estimatedCost"`
	FinalPrice    *float64 `json:"finalPrice"`
}

// Breakdown is the derived part of a payment
type Breakdown struct {
	ServiceFee  float64
	ProfitShare float64
	Total       float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate derives the surcharges. A nil final price contributes no profit share.
func Calculate(estimatedCost float64, finalPrice *float64) Breakdown {
	fee := round2(estimatedCost * domain.ServiceFeeRate)
	share := 0.0
	if finalPrice != nil {
		share = round2(*finalPrice * domain.ProfitShareRate)
	}
	return Breakdown{
		ServiceFee:  fee,
		ProfitShare: share,
		Total:       round2(estimatedCost + fee + share),
	}
}

// CreatePayment records a payment for a crop assigned to the agent
func (s *PaymentService) CreatePayment(ctx context.Context, agentID uint, input *CreatePaymentInput) (*models.Payment, error) {
	if input.CropID == 0 || input.EstimatedCost == nil {
		return nil, ErrEstimatedCostMissing
	}
	if *input.EstimatedCost < 0 {
		return nil, domain.Invalid("Estimated cost cannot be negative")
	}
	if input.FinalPrice != nil && *input.FinalPrice < 0 {
		return nil, domain.Invalid("Final price cannot be negative")
	}

	crop, err := s.crops.GetByID(ctx, input.CropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		return nil, err
	}
	if !crop.IsAssignedTo(agentID) {
		return nil, ErrNotAssignedAgent
	}

	estimated := round2(*input.EstimatedCost)
	var final *float64
	if input.FinalPrice != nil {
		v := round2(*input.FinalPrice)
		final = &v
	}
	b := Calculate(estimated, final)

	payment := &models.Payment{
		FarmerID:      crop.FarmerID,
		CropID:        crop.ID,
		CreatedBy:     agentID,
		EstimatedCost: estimated,
		FinalPrice:    final,
		ServiceFee:    b.ServiceFee,
		ProfitShare:   b.ProfitShare,
		Total:         b.Total,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment created",
		zap.Uint("payment_id", payment.ID),
		zap.Uint("crop_id", crop.ID),
		zap.Uint("agent_id", agentID),
		zap.Float64("total", payment.Total),
	)
	return payment, nil
}

// GetFarmerPayments lists the farmer's payments with their crops
func (s *PaymentService) GetFarmerPayments(ctx context.Context, farmerID uint) ([]*models.Payment, error) {
	payments, err := s.payments.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

// GetAgentPayments lists payments whose crop is currently assigned to the agent
func (s *PaymentService) GetAgentPayments(ctx context.Context, agentID uint) ([]*models.Payment, error) {
	payments, err := s.payments.ListForAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

// GetPayment returns a payment to its farmer or to the crop's assigned agent
func (s *PaymentService) GetPayment(ctx context.Context, userID uint, role domain.Role, paymentID uint) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	switch role {
	case domain.RoleAdmin:
		return payment, nil
	case domain.RoleFarmer:
		if payment.FarmerID == userID {
			return payment, nil
		}
	case domain.RoleAgent:
		if payment.Crop != nil && payment.Crop.IsAssignedTo(userID) {
			return payment, nil
		}
	}
	return nil, ErrPaymentAccessDenied
}
