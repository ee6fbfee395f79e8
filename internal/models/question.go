package models

import (
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobDescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"job_description_id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionText     string    `gorm:"type:text;not null" json:"question_text"`
	CreatedAt        time.Time `json:"created_at"`

	// Relations
	JobDescription JobDescription `gorm:"foreignKey:JobDescriptionID;constraint:OnDelete:CASCADE" json:"-"`
	Responses      []Response     `gorm:"foreignKey:QuestionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
