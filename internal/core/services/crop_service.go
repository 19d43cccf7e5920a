package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/pagination"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Crop errors
var (
	ErrCropNotFound     = domain.New(domain.ErrNotFound, "Crop not found")
	ErrNotAssignedAgent = domain.New(domain.ErrForbidden, "Not authorized: crop is assigned to another agent")
	ErrCropAccessDenied = domain.New(domain.ErrForbidden, "Not authorized to view this crop")
)

// Agent assignment strategies
const (
	AssignLeastLoaded = "least_loaded"
	AssignFirstMatch  = "first_match"
)

// AgentSelector picks one agent among the agents of a region.
// Candidates arrive ordered by id ascending and are never empty.
type AgentSelector interface {
	Name() string
	Pick(ctx context.Context, candidates []*models.User) (*models.User, error)
}

type firstMatchSelector struct{}

func (firstMatchSelector) Name() string { return AssignFirstMatch }

func (firstMatchSelector) Pick(_ context.Context, candidates []*models.User) (*models.User, error) {
	return candidates[0], nil
}

// leastLoadedSelector prefers the agent with the fewest pending crops, lowest id on ties
type leastLoadedSelector struct {
	crops *repositories.CropRepository
}

func (leastLoadedSelector) Name() string { return AssignLeastLoaded }

func (s leastLoadedSelector) Pick(ctx context.Context, candidates []*models.User) (*models.User, error) {
	ids := make([]uint, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	pending, err := s.crops.CountPendingByAgent(ctx, ids)
	if err != nil {
		return nil, err
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if pending[c.ID] < pending[best.ID] {
			best = c
		}
	}
	return best, nil
}

// NewAgentSelector returns the selector registered under strategy, least_loaded by default
func NewAgentSelector(strategy string, db *gorm.DB) AgentSelector {
	if strategy == AssignFirstMatch {
		return firstMatchSelector{}
	}
	return leastLoadedSelector{crops: repositories.NewCropRepository(db)}
}

// CropService handles crop registration and farmer-side queries
type CropService struct {
	crops    *repositories.CropRepository
	users    repositories.UserRepository
	selector AgentSelector
	log      *zap.Logger
}

// NewCropService creates a new crop service
func NewCropService(db *gorm.DB, selector AgentSelector, log *zap.Logger) *CropService {
	return &CropService{
		crops:    repositories.NewCropRepository(db),
		users:    repositories.NewUserRepository(db),
		selector: selector,
		log:      log,
	}
}

// RegisterCropInput is the crop registration payload.
// Age, gender, phone and address form the farmer details snapshot.
type RegisterCropInput struct {
	Name                 string   `json:"name"`
	Acres                float64  `json:"acres"`
	CultivationStartDate string   `json:"cultivationStartDate"`
	EndDate              string   `json:"endDate"`
	TypeOfSoil           string   `json:"typeOfSoil"`
	PreferredLanguage    string   `json:"preferredLanguage"`
	Quantity             *float64 `json:"quantity"`
	Price                *float64 `json:"price"`
	Age                  *int     `json:"age"`
	Gender               string   `json:"gender"`
	Phone                string   `json:"phone"`
	Address              string   `json:"address"`
}

// RegisterCropResult reports the new crop and who will review it
type RegisterCropResult struct {
	CropID        uint    `json:"cropId"`
	AssignedAgent *string `json:"assignedAgent"`
}

// CropList is one page of crops
type CropList struct {
	Crops      []*models.Crop   `json:"crops"`
	Pagination *pagination.Meta `json:"pagination"`
}

// parseDate accepts RFC3339 or a bare YYYY-MM-DD
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func (in *RegisterCropInput) toModel(farmerID uint) (*models.Crop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CultivationStartDate == "" {
		return nil, domain.Invalid("Please provide crop name, acres and cultivation start date")
	}
	if in.Acres <= 0 {
		return nil, domain.Invalid("Acres must be greater than 0")
	}
	if (in.Quantity != nil && *in.Quantity < 0) || (in.Price != nil && *in.Price < 0) {
		return nil, domain.Invalid("Quantity and price cannot be negative")
	}

	start, err := parseDate(in.CultivationStartDate)
	if err != nil {
		return nil, domain.Invalid("Invalid cultivation start date")
	}

	crop := &models.Crop{
		FarmerID:             farmerID,
		Name:                 name,
		Acres:                in.Acres,
		CultivationStartDate: start,
		TypeOfSoil:           strings.TrimSpace(in.TypeOfSoil),
		PreferredLanguage:    strings.TrimSpace(in.PreferredLanguage),
		Quantity:             in.Quantity,
		Price:                in.Price,
		Status:               string(domain.CropPending),
		LiveStatus:           string(domain.LiveActive),
		FarmerDetails: datatypes.NewJSONType(models.FarmerDetails{
			Age:     in.Age,
			Gender:  in.Gender,
			Phone:   in.Phone,
			Address: in.Address,
		}),
	}

	if in.EndDate != "" {
		end, err := parseDate(in.EndDate)
		if err != nil {
			return nil, domain.Invalid("Invalid end date")
		}
		if end.Before(start) {
			return nil, domain.Invalid("End date cannot be before cultivation start date")
		}
		crop.EndDate = &end
	}
	return crop, nil
}

// RegisterCrop creates a pending crop and assigns an agent of the farmer's region, if any
func (s *CropService) RegisterCrop(ctx context.Context, farmerID uint, input *RegisterCropInput) (*RegisterCropResult, error) {
	crop, err := input.toModel(farmerID)
	if err != nil {
		return nil, err
	}

	farmer, err := s.users.GetByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	agent, err := s.resolveAgent(ctx, farmer.Region)
	if err != nil {
		return nil, err
	}

	result := &RegisterCropResult{}
	if agent != nil {
		crop.AgentID = &agent.ID
		result.AssignedAgent = &agent.Name
	}

	if err := s.crops.Create(ctx, crop); err != nil {
		return nil, err
	}
	result.CropID = crop.ID

	fields := []zap.Field{
		zap.Uint("crop_id", crop.ID),
		zap.Uint("farmer_id", farmerID),
		zap.String("strategy", s.selector.Name()),
	}
	if agent != nil {
		fields = append(fields, zap.Uint("agent_id", agent.ID))
	}
	s.log.Info("crop registered", fields...)

	return result, nil
}

func (s *CropService) resolveAgent(ctx context.Context, region string) (*models.User, error) {
	if strings.TrimSpace(region) == "" {
		return nil, nil
	}

	candidates, err := s.users.ListAgentsInRegion(ctx, region)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return s.selector.Pick(ctx, candidates)
}

// GetMyCrops returns a page of the farmer's crops, newest first
func (s *CropService) GetMyCrops(ctx context.Context, farmerID uint, params *pagination.Params) (*CropList, error) {
	crops, total, err := s.crops.ListByFarmer(ctx, farmerID, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	if crops == nil {
		crops = []*models.Crop{}
	}
	return &CropList{Crops: crops, Pagination: pagination.GetMeta(params, total)}, nil
}

// GetCrop returns one crop to its farmer, its assigned agent or an admin
func (s *CropService) GetCrop(ctx context.Context, userID uint, role domain.Role, cropID uint) (*models.Crop, error) {
	crop, err := s.crops.GetDetailed(ctx, cropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCropNotFound
		}
		return nil, err
	}

	switch role {
	case domain.RoleAdmin:
	case domain.RoleFarmer:
		if crop.FarmerID != userID {
			return nil, ErrCropAccessDenied
		}
	case domain.RoleAgent:
		if !crop.IsAssignedTo(userID) {
			return nil, ErrCropAccessDenied
		}
	default:
		return nil, ErrCropAccessDenied
	}
	return crop, nil
}
