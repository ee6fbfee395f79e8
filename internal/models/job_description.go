package models

import (
	"time"

	"github.com/google/uuid"
)

type JobDescriptionStatus string

const (
	StatusPending            JobDescriptionStatus = "pending"
	StatusQuestionsGenerated JobDescriptionStatus = "questions_generated"
	StatusError              JobDescriptionStatus = "error"
)

// Terminal reports whether no further status transition is allowed.
// The only legal transitions are pending -> questions_generated and
// pending -> error.
func (s JobDescriptionStatus) Terminal() bool {
	return s == StatusQuestionsGenerated || s == StatusError
}

type JobDescription struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyName     string               `gorm:"type:text;not null" json:"company_name"`
	JobTitle        string               `gorm:"type:text;not null" json:"job_title"`
	DescriptionText string               `gorm:"type:text;not null" json:"description_text"`
	Status          JobDescriptionStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	ErrorMessage    *string              `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`

	// Relations
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Questions []Question `gorm:"foreignKey:JobDescriptionID" json:"-"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
