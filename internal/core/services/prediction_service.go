package services

import (
	"context"
	"errors"

	"agriconnect/internal/adapters/ai"
	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Prediction errors
var (
	ErrCropIDRequired   = domain.Invalid("cropId is required")
	ErrAIUnavailable    = domain.New(domain.ErrUpstreamUnavailable, "AI service unavailable")
	ErrPredictionFailed = errors.New("AI service error")
)

// PredictionService proxies crop predictions and records them for the farmer
type PredictionService struct {
	db          *gorm.DB
	crops       *repositories.CropRepository
	users       repositories.UserRepository
	predictions *repositories.PredictionRepository
	client      ai.Client
	log         *zap.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(db *gorm.DB, client ai.Client, log *zap.Logger) *PredictionService {
	return &PredictionService{
		db:          db,
		crops:       repositories.NewCropRepository(db),
		users:       repositories.NewUserRepository(db),
		predictions: repositories.NewPredictionRepository(db),
		client:      client,
		log:         log,
	}
}

// PredictionResult is returned to the caller after the answer is recorded
type PredictionResult struct {
	Prediction     string  `json:"prediction"`
	Confidence     float64 `json:"confidence"`
	PredictionID   uint    `json:"predictionId"`
	NotificationID uint    `json:"notificationId"`
}

// Predict asks the prediction service about a crop, then stores the answer and
// notifies the crop's farmer in one transaction
func (s *PredictionService) Predict(ctx context.Context, requesterID uint, cropID uint) (*PredictionResult, error) {
	if cropID == 0 {
		return nil, ErrCropIDRequired
	}

	crop, err := s.crops.GetByID(ctx, cropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		return nil, err
	}

	req := ai.PredictRequest{
		CropID:     crop.ID,
		CropName:   crop.Name,
		Acres:      crop.Acres,
		TypeOfSoil: crop.TypeOfSoil,
	}
	if farmer, err := s.users.GetByID(ctx, crop.FarmerID); err == nil {
		req.Region = farmer.Region
	}

	answer, err := s.client.Predict(ctx, req)
	if err != nil {
		s.log.Warn("prediction request failed", zap.Uint("crop_id", cropID), zap.Error(err))
		if errors.Is(err, ai.ErrUnavailable) {
			return nil, ErrAIUnavailable
		}
		return nil, ErrPredictionFailed
	}

	prediction := &models.Prediction{
		CropID:      crop.ID,
		RequestedBy: requesterID,
		Prediction:  answer.Prediction,
		Confidence:  answer.Confidence,
		Raw:         datatypes.JSON(answer.Raw),
	}
	sender := requesterID
	notification := &models.Notification{
		ToID:    crop.FarmerID,
		FromID:  &sender,
		Message: "AI Prediction: " + answer.Prediction,
		Type:    string(domain.NotifyPrediction),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewPredictionRepository(tx).Create(ctx, prediction); err != nil {
			return err
		}
		return repositories.NewNotificationRepository(tx).Create(ctx, notification)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("prediction recorded",
		zap.Uint("crop_id", crop.ID),
		zap.Uint("prediction_id", prediction.ID),
		zap.Uint("requested_by", requesterID),
	)

	return &PredictionResult{
		Prediction:     answer.Prediction,
		Confidence:     answer.Confidence,
		PredictionID:   prediction.ID,
		NotificationID: notification.ID,
	}, nil
}

// History lists predictions stored for a crop
func (s *PredictionService) History(ctx context.Context, cropID uint) ([]*models.Prediction, error) {
	if _, err := s.crops.GetByID(ctx, cropID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		return nil, err
	}
	items, err := s.predictions.ListByCrop(ctx, cropID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Prediction{}
	}
	return items, nil
}
