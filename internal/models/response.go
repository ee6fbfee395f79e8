package models

import (
	"time"

	"github.com/google/uuid"
)

type Response struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	AudioPath  string    `gorm:"type:text;not null" json:"audio_path"`
	Transcript string    `gorm:"type:text;not null" json:"transcript"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Question Question       `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Score    *ResponseScore `gorm:"foreignKey:ResponseID" json:"-"`
}

func (Response) TableName() string {
	return "responses"
}
