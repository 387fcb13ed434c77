package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeYesNo          QuestionType = "yes_no"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeNumber         QuestionType = "number"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeYesNo, QuestionTypeText, QuestionTypeNumber, QuestionTypeMultipleChoice:
		return true
	}
	return false
}

type ActivityType struct {
	BaseUUIDModel
	Name          string         `gorm:"type:text;uniqueIndex;not null" json:"name" validate:"required"`
	Description   string         `gorm:"type:text"                      json:"description"`
	EstimatedTime *time.Duration `gorm:"type:bigint"                    json:"estimatedTime,omitempty"`
	RequiresParts bool           `gorm:"type:bool;default:true"         json:"requiresParts"`
	IsActive      bool           `gorm:"type:bool;default:true"         json:"isActive"`

	Questions []StandardQuestion `gorm:"foreignKey:ActivityTypeID" json:"questions,omitempty"`
}

// StandardQuestion is one checklist item of an activity type. Choices is
// only populated for multiple_choice questions.
type StandardQuestion struct {
	BaseUUIDModel
	ActivityTypeID uuid.UUID      `gorm:"type:uuid;not null;index:idx_standard_questions_type" json:"activityTypeId"`
	Question       string         `gorm:"type:text;not null"     json:"question" validate:"required"`
	Type           QuestionType   `gorm:"type:text;not null"     json:"type" validate:"required"`
	Choices        datatypes.JSON `gorm:"type:jsonb"             json:"choices,omitempty"`
	IsRequired     bool           `gorm:"type:bool;default:true" json:"isRequired"`
	Order          int            `gorm:"column:question_order;type:int;not null;default:0" json:"order"`
}

func (q *StandardQuestion) BeforeCreate(tx *gorm.DB) error {
	if err := q.EnsureID(); err != nil {
		return err
	}
	if q.ActivityTypeID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if q.Question == "" {
		return gorm.ErrInvalidValue
	}
	if !q.Type.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}
