package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interviewiq/backend/internal/models"
)

var ErrResponseNotFound = errors.New("response not found")

type ResponseRepository interface {
	Create(response *models.Response) error
	CreateScore(score *models.ResponseScore) error
	FindByIDForUser(id, userID uuid.UUID) (*models.Response, error)
	ListByQuestion(questionID uuid.UUID) ([]models.Response, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

// Create implements ResponseRepository.
func (r *responseRepository) Create(response *models.Response) error {
	if err := r.db.Create(response).Error; err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}

	return nil
}

// CreateScore implements ResponseRepository. The unique index on
// response_id keeps scores 1:1 with responses.
func (r *responseRepository) CreateScore(score *models.ResponseScore) error {
	if err := r.db.Create(score).Error; err != nil {
		return fmt.Errorf("failed to create response score: %w", err)
	}

	return nil
}

// FindByIDForUser returns the response only when it belongs to the given
// user. Ownership mismatch surfaces as not-found.
func (r *responseRepository) FindByIDForUser(id, userID uuid.UUID) (*models.Response, error) {
	var response models.Response
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseNotFound
		}

		return nil, fmt.Errorf("failed to find response: %w", err)
	}

	return &response, nil
}

// ListByQuestion returns all responses for a question, newest first, with
// scores preloaded where they exist.
func (r *responseRepository) ListByQuestion(questionID uuid.UUID) ([]models.Response, error) {
	var responses []models.Response
	err := r.db.
		Preload("Score").
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return responses, nil
}
