package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResponseScore struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResponseID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"response_id"`

	// Raw evaluation payload as returned by the LLM
	ScoresJSON datatypes.JSON `gorm:"not null" json:"scores_json"`

	// Denormalized sub-scores (1-10) for easier querying
	ScoreConfidence          int `json:"score_confidence"`
	ScoreClarityStructure    int `json:"score_clarity_structure"`
	ScoreTechnicalDepth      int `json:"score_technical_depth"`
	ScoreCommunicationSkills int `json:"score_communication_skills"`
	ScoreRelevance           int `json:"score_relevance"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Response Response `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ResponseScore) TableName() string {
	return "response_scores"
}
