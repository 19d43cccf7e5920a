package domain

// Role represents user role in the system
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// CropStatus is the review state of a crop registration
type CropStatus string

const (
	CropPending  CropStatus = "pending"
	CropApproved CropStatus = "approved"
	CropRejected CropStatus = "rejected"
)

// LiveStatus tracks the cultivation itself, independent of review
type LiveStatus string

const (
	LiveActive    LiveStatus = "active"
	LiveCompleted LiveStatus = "completed"
	LiveFailed    LiveStatus = "failed"
)

// NotificationType classifies outbox messages
type NotificationType string

const (
	NotifyAlert          NotificationType = "alert"
	NotifyPrediction     NotificationType = "prediction"
	NotifyRecommendation NotificationType = "recommendation"
	NotifyGeneral        NotificationType = "general"
)

// Valid reports whether t is a known notification type
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyAlert, NotifyPrediction, NotifyRecommendation, NotifyGeneral:
		return true
	}
	return false
}

// FileType classifies uploaded media
type FileType string

const (
	FileImage    FileType = "image"
	FileVideo    FileType = "video"
	FilePDF      FileType = "pdf"
	FileDocument FileType = "document"
)

// Payment surcharges
const (
	ServiceFeeRate  = 0.25
	ProfitShareRate = 0.15
)
