package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrReasonRequired is returned when a rejection carries no reason
var ErrReasonRequired = domain.Invalid("Rejection reason is required")

// ReviewService drives the agent side of the crop lifecycle
type ReviewService struct {
	db    *gorm.DB
	crops *repositories.CropRepository
	log   *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB, log *zap.Logger) *ReviewService {
	return &ReviewService{
		db:    db,
		crops: repositories.NewCropRepository(db),
		log:   log,
	}
}

// FarmerFilter narrows GetFarmers. FarmerID may be a numeric user id or a FARM-... code.
type FarmerFilter struct {
	CropName string
	FarmerID string
}

// Approve marks the crop approved and clears any rejection reason, whatever its prior state
func (s *ReviewService) Approve(ctx context.Context, agentID, cropID uint) (*models.Crop, error) {
	return s.transition(ctx, agentID, cropID, domain.CropApproved, nil)
}

// Reject marks the crop rejected with the given reason
func (s *ReviewService) Reject(ctx context.Context, agentID, cropID uint, reason string) (*models.Crop, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, agentID, cropID, domain.CropRejected, &reason)
}

// transition writes the new status, the history row and the farmer alert atomically
func (s *ReviewService) transition(ctx context.Context, agentID, cropID uint, to domain.CropStatus, reason *string) (*models.Crop, error) {
	var crop *models.Crop

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		crops := repositories.NewCropRepository(tx)

		var err error
		crop, err = crops.GetByID(ctx, cropID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCropNotFound
			}
			return err
		}
		if !crop.IsAssignedTo(agentID) {
			return ErrNotAssignedAgent
		}
		if to == domain.CropRejected && (reason == nil || *reason == "") {
			return ErrReasonRequired
		}

		from := crop.CurrentStatus()
		if err := crops.UpdateStatus(ctx, cropID, to, reason); err != nil {
			return err
		}

		event := &models.CropStatusEvent{
			CropID:     cropID,
			FromStatus: string(from),
			ToStatus:   string(to),
			ActorID:    agentID,
		}
		if reason != nil {
			event.Reason = *reason
		}
		if err := crops.AddEvent(ctx, event); err != nil {
			return err
		}

		sender := agentID
		return repositories.NewNotificationRepository(tx).Create(ctx, &models.Notification{
			ToID:    crop.FarmerID,
			FromID:  &sender,
			Message: reviewMessage(crop.Name, to, reason),
			Type:    string(domain.NotifyAlert),
		})
	})
	if err != nil {
		return nil, err
	}

	crop.Status = string(to)
	crop.RejectionReason = reason

	s.log.Info("crop reviewed",
		zap.Uint("crop_id", cropID),
		zap.Uint("agent_id", agentID),
		zap.String("status", string(to)),
	)
	return crop, nil
}

func reviewMessage(cropName string, to domain.CropStatus, reason *string) string {
	if to == domain.CropRejected && reason != nil {
		return fmt.Sprintf("Your crop %q was rejected: %s", cropName, *reason)
	}
	return fmt.Sprintf("Your crop %q was %s", cropName, to)
}

// GetPendingCrops lists the agent's crops awaiting review
func (s *ReviewService) GetPendingCrops(ctx context.Context, agentID uint) ([]*models.Crop, error) {
	crops, err := s.crops.ListPendingForAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if crops == nil {
		crops = []*models.Crop{}
	}
	return crops, nil
}

// GetFarmers lists every crop assigned to the agent, narrowed by exact crop name or farmer
func (s *ReviewService) GetFarmers(ctx context.Context, agentID uint, filter FarmerFilter) ([]*models.Crop, error) {
	f := repositories.CropFilter{Name: strings.TrimSpace(filter.CropName)}

	if code := strings.TrimSpace(filter.FarmerID); code != "" {
		if id, err := strconv.ParseUint(code, 10, 64); err == nil {
			f.FarmerID = uint(id)
		} else {
			f.FarmerCode = code
		}
	}

	crops, err := s.crops.ListForAgent(ctx, agentID, f)
	if err != nil {
		return nil, err
	}
	if crops == nil {
		crops = []*models.Crop{}
	}
	return crops, nil
}

// History lists a crop's review transitions, visible to its assigned agent
func (s *ReviewService) History(ctx context.Context, agentID, cropID uint) ([]*models.CropStatusEvent, error) {
	crop, err := s.crops.GetByID(ctx, cropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		return nil, err
	}
	if !crop.IsAssignedTo(agentID) {
		return nil, ErrNotAssignedAgent
	}

	events, err := s.crops.ListEvents(ctx, cropID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.CropStatusEvent{}
	}
	return events, nil
}
