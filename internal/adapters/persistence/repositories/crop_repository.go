package repositories

import (
	"context"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/core/domain"

	"gorm.io/gorm"
)

// publicUserColumns limits populated users to what other parties may see
func publicUserColumns(fields ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Select(append([]string{"id"}, fields...))
	}
}

// CropFilter narrows an agent's crop listing. Zero values are ignored.
type CropFilter struct {
	Name     string
	FarmerID uint
	// FarmerCode matches the human-readable FARM-<year>-<seq> identifier
	FarmerCode string
}

// CropRepository handles crop data access
type CropRepository struct {
	db *gorm.DB
}

// NewCropRepository creates a new crop repository
func NewCropRepository(db *gorm.DB) *CropRepository {
	return &CropRepository{db: db}
}

// Create creates a new crop
func (r *CropRepository) Create(ctx context.Context, crop *models.Crop) error {
	return r.db.WithContext(ctx).Create(crop).Error
}

// GetByID gets a crop by ID without relations
func (r *CropRepository) GetByID(ctx context.Context, id uint) (*models.Crop, error) {
	var crop models.Crop
	err := r.db.WithContext(ctx).First(&crop, id).Error
	if err != nil {
		return nil, err
	}
	return &crop, nil
}

// GetDetailed gets a crop with farmer and agent populated
func (r *CropRepository) GetDetailed(ctx context.Context, id uint) (*models.Crop, error) {
	var crop models.Crop
	err := r.db.WithContext(ctx).
		Preload("Farmer", publicUserColumns("name", "phone", "region", "farmer_code")).
		Preload("Agent", publicUserColumns("name", "email", "phone", "region")).
		First(&crop, id).Error
	if err != nil {
		return nil, err
	}
	return &crop, nil
}

// ListByFarmer lists a farmer's crops newest first
func (r *CropRepository) ListByFarmer(ctx context.Context, farmerID uint, offset, limit int) ([]*models.Crop, int64, error) {
	var crops []*models.Crop
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Crop{}).Where("farmer_id = ?", farmerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Agent", publicUserColumns("name", "email", "phone", "region")).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&crops).Error

	return crops, total, err
}

// ListPendingForAgent lists pending crops assigned to the agent
func (r *CropRepository) ListPendingForAgent(ctx context.Context, agentID uint) ([]*models.Crop, error) {
	var crops []*models.Crop
	err := r.db.WithContext(ctx).
		Preload("Farmer", publicUserColumns("name", "phone", "region")).
		Where("agent_id = ? AND status = ?", agentID, string(domain.CropPending)).
		Order("created_at ASC, id ASC").
		Find(&crops).Error
	return crops, err
}

// ListForAgent lists every crop assigned to the agent, narrowed by exact matches
func (r *CropRepository) ListForAgent(ctx context.Context, agentID uint, filter CropFilter) ([]*models.Crop, error) {
	var crops []*models.Crop

	query := r.db.WithContext(ctx).
		Preload("Farmer", publicUserColumns("name", "phone", "region", "farmer_code")).
		Where("crops.agent_id = ?", agentID)

	if filter.Name != "" {
		query = query.Where(ExactMatch(r.db, "crops.name"), filter.Name)
	}
	if filter.FarmerID != 0 {
		query = query.Where("crops.farmer_id = ?", filter.FarmerID)
	}
	if filter.FarmerCode != "" {
		query = query.
			Joins("JOIN users AS owner ON owner.id = crops.farmer_id").
			Where(ExactMatch(r.db, "owner.farmer_code"), filter.FarmerCode)
	}

	err := query.Order("crops.created_at DESC, crops.id DESC").Find(&crops).Error
	return crops, err
}

// UpdateStatus overwrites status and rejection reason. A nil reason clears the column.
func (r *CropRepository) UpdateStatus(ctx context.Context, id uint, status domain.CropStatus, reason *string) error {
	return r.db.WithContext(ctx).Model(&models.Crop{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           string(status),
			"rejection_reason": reason,
		}).Error
}

// LatestWithAgentForFarmer returns the farmer's newest crop that has an agent
func (r *CropRepository) LatestWithAgentForFarmer(ctx context.Context, farmerID uint) (*models.Crop, error) {
	var crop models.Crop
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND agent_id IS NOT NULL", farmerID).
		Order("created_at DESC, id DESC").
		First(&crop).Error
	if err != nil {
		return nil, err
	}
	return &crop, nil
}

// CountPendingByAgent counts pending crops per agent for the given agents
func (r *CropRepository) CountPendingByAgent(ctx context.Context, agentIDs []uint) (map[uint]int64, error) {
	var rows []struct {
		AgentID uint
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Crop{}).
		Select("agent_id, COUNT(*) AS total").
		Where("agent_id IN ? AND status = ?", agentIDs, string(domain.CropPending)).
		Group("agent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.AgentID] = row.Total
	}
	return counts, nil
}

// AddEvent appends a status transition
func (r *CropRepository) AddEvent(ctx context.Context, event *models.CropStatusEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListEvents gets a crop's transitions oldest first
func (r *CropRepository) ListEvents(ctx context.Context, cropID uint) ([]*models.CropStatusEvent, error) {
	var events []*models.CropStatusEvent
	err := r.db.WithContext(ctx).
		Preload("Actor", publicUserColumns("name", "role")).
		Where("crop_id = ?", cropID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
