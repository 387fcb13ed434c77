package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ActivityStatus string

const (
	ActivityStatusPending    ActivityStatus = "pending"
	ActivityStatusInProgress ActivityStatus = "in_progress"
	ActivityStatusCompleted  ActivityStatus = "completed"
	ActivityStatusCancelled  ActivityStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ActivityStatus) IsTerminal() bool {
	return s == ActivityStatusCompleted || s == ActivityStatusCancelled
}

type ActivityPriority string

const (
	ActivityPriorityLow      ActivityPriority = "low"
	ActivityPriorityMedium   ActivityPriority = "medium"
	ActivityPriorityHigh     ActivityPriority = "high"
	ActivityPriorityCritical ActivityPriority = "critical"
)

// MaintenanceActivity is one unit of maintenance work against a location.
//
// Lifecycle: pending -> in_progress -> completed, with cancelled reachable
// from pending and in_progress. Transitions are applied with a conditional
// UPDATE on the current status so concurrent callers serialize.
type MaintenanceActivity struct {
	BaseUUIDModel
	TechnicianID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_activities_technician" json:"technicianId" validate:"required"`
	ActivityTypeID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_activities_type" json:"activityTypeId" validate:"required"`
	LocationID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_activities_location" json:"locationId" validate:"required"`
	Title             string           `gorm:"type:text;not null" json:"title" validate:"required"`
	Description       string           `gorm:"type:text"          json:"description"`
	Status            ActivityStatus   `gorm:"type:text;not null;default:pending;index:idx_activities_status" json:"status"`
	Priority          ActivityPriority `gorm:"type:text;not null;default:medium" json:"priority"`
	ScheduledDate     *time.Time       `gorm:"type:timestamp"     json:"scheduledDate,omitempty"`
	StartedAt         *time.Time       `gorm:"type:timestamp"     json:"startedAt,omitempty"`
	CompletedAt       *time.Time       `gorm:"type:timestamp"     json:"completedAt,omitempty"`
	EstimatedDuration *time.Duration   `gorm:"type:bigint"        json:"estimatedDuration,omitempty"`
	ActualDuration    *time.Duration   `gorm:"type:bigint"        json:"actualDuration,omitempty"`
	Observations      string           `gorm:"type:text"          json:"observations"`

	Technician   *User                `gorm:"foreignKey:TechnicianID"   json:"technician,omitempty"`
	ActivityType *ActivityType        `gorm:"foreignKey:ActivityTypeID" json:"activityType,omitempty"`
	Location     *Location            `gorm:"foreignKey:LocationID"     json:"location,omitempty"`
	PartsUsed    []PartUsage          `gorm:"foreignKey:ActivityID"     json:"partsUsed,omitempty"`
	Answers      []ActivityAnswer     `gorm:"foreignKey:ActivityID"     json:"answers,omitempty"`
	Photos       []ActivityPhoto      `gorm:"foreignKey:ActivityID"     json:"photos,omitempty"`
}

func (a *MaintenanceActivity) BeforeCreate(tx *gorm.DB) error {
	if err := a.EnsureID(); err != nil {
		return err
	}
	if a.TechnicianID == uuid.Nil || a.ActivityTypeID == uuid.Nil || a.LocationID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if a.Title == "" {
		return gorm.ErrInvalidValue
	}
	if a.Status == "" {
		a.Status = ActivityStatusPending
	}
	if a.Priority == "" {
		a.Priority = ActivityPriorityMedium
	}
	return nil
}

// PartUsage records inventory consumed by one activity for one part. The
// (activity, part) pair is unique: reporting the same part again within a
// completion accumulates Quantity instead of adding a row.
type PartUsage struct {
	BaseUUIDModel
	ActivityID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_part_usages_activity_part" json:"activityId"`
	PartID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_part_usages_activity_part" json:"partId"`
	Quantity     decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitCost     *decimal.Decimal `gorm:"type:decimal(10,2)"          json:"unitCost,omitempty"`
	Observations string           `gorm:"type:text"                   json:"observations"`

	Part *Part `gorm:"foreignKey:PartID" json:"part,omitempty"`
}

// TotalCost is Quantity x UnitCost, or nil when no cost was snapshotted.
func (pu *PartUsage) TotalCost() *decimal.Decimal {
	if pu.UnitCost == nil {
		return nil
	}
	total := pu.Quantity.Mul(*pu.UnitCost)
	return &total
}

// ActivityAnswer holds one checklist answer. Exactly one payload field is
// authoritative, selected by the question's declared type rather than by
// which fields happen to be non-null.
type ActivityAnswer struct {
	BaseUUIDModel
	ActivityID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_activity_answers_activity_question" json:"activityId"`
	QuestionID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_activity_answers_activity_question" json:"questionId"`
	Text       *string          `gorm:"column:answer_text;type:text"           json:"text,omitempty"`
	Number     *decimal.Decimal `gorm:"column:answer_number;type:decimal(10,2)" json:"number,omitempty"`
	Boolean    *bool            `gorm:"column:answer_boolean;type:bool"         json:"boolean,omitempty"`

	Question *StandardQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

type PhotoType string

const (
	PhotoTypeBefore   PhotoType = "before"
	PhotoTypeDuring   PhotoType = "during"
	PhotoTypeAfter    PhotoType = "after"
	PhotoTypeProblem  PhotoType = "problem"
	PhotoTypeSolution PhotoType = "solution"
)

// ActivityPhoto is attachment metadata. Storage of the bytes is handled by
// the photo service and never participates in workflow transactions.
type ActivityPhoto struct {
	BaseUUIDModel
	ActivityID  uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_photos_activity" json:"activityId"`
	Type        PhotoType `gorm:"type:text;not null" json:"type"`
	Path        string    `gorm:"type:text;not null" json:"path"`
	Description string    `gorm:"type:text"          json:"description"`
}
