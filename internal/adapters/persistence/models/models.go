package models

import (
	"time"

	"agriconnect/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// User represents users table (farmers, agents and admins)
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone      string    `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Role       string    `gorm:"size:20;not null;index" json:"role"`
	Region     string    `gorm:"size:100;index" json:"region,omitempty"`
	FarmerCode *string   `gorm:"column:farmer_code;uniqueIndex;size:20" json:"farmerId,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Region   string `json:"region,omitempty"`
	FarmerID string `json:"farmerId,omitempty"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   u.Role,
		Region: u.Region,
	}
	if u.FarmerCode != nil {
		resp.FarmerID = *u.FarmerCode
	}
	return resp
}

// Counter is a named monotonically increasing sequence
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string {
	return "counters"
}

// ============================================================
// Crops
// ============================================================

// FarmerDetails is the snapshot a farmer submits with a crop registration
type FarmerDetails struct {
	Age     *int   `json:"age,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Crop represents crops table
type Crop struct {
	ID                   uint                              `gorm:"primaryKey" json:"id"`
	FarmerID             uint                              `gorm:"not null;index" json:"farmerId"`
	Name                 string                            `gorm:"size:100;not null;index" json:"name"`
	Acres                float64                           `gorm:"not null" json:"acres"`
	CultivationStartDate time.Time                         `gorm:"not null" json:"cultivationStartDate"`
	EndDate              *time.Time                        `json:"endDate,omitempty"`
	TypeOfSoil           string                            `gorm:"size:100" json:"typeOfSoil,omitempty"`
	PreferredLanguage    string                            `gorm:"size:50" json:"preferredLanguage,omitempty"`
	Quantity             *float64                          `json:"quantity,omitempty"`
	Price                *float64                          `json:"price,omitempty"`
	Status               string                            `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RejectionReason      *string                           `gorm:"type:text" json:"rejectionReason,omitempty"`
	AgentID              *uint                             `gorm:"index" json:"agentId"`
	FarmerDetails        datatypes.JSONType[FarmerDetails] `json:"farmerDetails"`
	LiveStatus           string                            `gorm:"size:20;not null;default:'active'" json:"liveStatus"`
	CreatedAt            time.Time                         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time                         `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Farmer *User `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Agent  *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (Crop) TableName() string {
	return "crops"
}

// CropStatusEvent is one review transition, appended on every approve/reject
type CropStatusEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CropID     uint      `gorm:"not null;index" json:"cropId"`
	FromStatus string    `gorm:"size:20;not null" json:"fromStatus"`
	ToStatus   string    `gorm:"size:20;not null" json:"toStatus"`
	Reason     string    `gorm:"type:text" json:"reason,omitempty"`
	ActorID    uint      `gorm:"not null" json:"actorId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (CropStatusEvent) TableName() string {
	return "crop_status_events"
}

// ============================================================
// Payments
// ============================================================

// Payment represents payments table. Rows are never updated.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FarmerID      uint      `gorm:"not null;index" json:"farmerId"`
	CropID        uint      `gorm:"not null;index" json:"cropId"`
	CreatedBy     uint      `gorm:"not null" json:"createdBy"`
	EstimatedCost float64   `gorm:"not null" json:"estimatedCost"`
	FinalPrice    *float64  `json:"finalPrice,omitempty"`
	ServiceFee    float64   `gorm:"not null" json:"serviceFee"`
	ProfitShare   float64   `gorm:"not null" json:"profitShare"`
	Total         float64   `gorm:"not null" json:"total"`
	Year          int       `gorm:"not null;index" json:"year"`
	CreatedAt     time.Time `json:"createdAt"`

	// Relations
	Crop   *Crop `gorm:"foreignKey:CropID" json:"crop,omitempty"`
	Farmer *User `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate stamps the creation time and the billing year derived from it
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.Year = p.CreatedAt.Year()
	return nil
}

// ============================================================
// Notifications & Media
// ============================================================

// Notification represents notifications table
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ToID      uint      `gorm:"not null;index" json:"to"`
	FromID    *uint     `json:"from,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:20;not null;default:'general'" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	Sender *User `gorm:"foreignKey:FromID" json:"sender,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Media represents media table
type Media struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FarmerID    uint      `gorm:"not null;index" json:"farmerId"`
	AgentID     *uint     `gorm:"index" json:"agentId"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	FileURL     string    `gorm:"size:255;not null" json:"fileUrl"`
	FileType    string    `gorm:"size:20;not null" json:"fileType"`
	FileName    string    `gorm:"size:255" json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Farmer *User `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
}

func (Media) TableName() string {
	return "media"
}

// Prediction keeps every answer received from the prediction service
type Prediction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CropID      uint           `gorm:"not null;index" json:"cropId"`
	RequestedBy uint           `gorm:"not null" json:"requestedBy"`
	Prediction  string         `gorm:"type:text;not null" json:"prediction"`
	Confidence  float64        `json:"confidence"`
	Raw         datatypes.JSON `json:"raw"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// Status helpers

func (c *Crop) IsAssignedTo(agentID uint) bool {
	return c.AgentID != nil && *c.AgentID == agentID
}

func (c *Crop) CurrentStatus() domain.CropStatus {
	return domain.CropStatus(c.Status)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Counter{},
		&Crop{},
		&CropStatusEvent{},
		&Payment{},
		&Notification{},
		&Media{},
		&Prediction{},
	)
}
