package models

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type JobDescriptionCreateRequest struct {
	CompanyName     string `json:"company_name" validate:"required"`
	JobTitle        string `json:"job_title" validate:"required"`
	DescriptionText string `json:"description_text" validate:"required"`
}

// JobDescriptionListItem is a job description row plus answer progress.
type JobDescriptionListItem struct {
	ID                uuid.UUID            `json:"id"`
	CompanyName       string               `json:"company_name"`
	JobTitle          string               `json:"job_title"`
	Status            JobDescriptionStatus `json:"status"`
	CreatedAt         time.Time            `json:"created_at"`
	TotalQuestions    int64                `json:"total_questions"`
	AnsweredQuestions int64                `json:"answered_questions"`
}

// QuestionListItem is a question row plus the number of recorded attempts.
type QuestionListItem struct {
	ID               uuid.UUID `json:"id"`
	JobDescriptionID uuid.UUID `json:"job_description_id"`
	QuestionText     string    `json:"question_text"`
	CreatedAt        time.Time `json:"created_at"`
	AttemptsCount    int64     `json:"attempts_count"`
}
