package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interviewiq/backend/internal/models"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepository interface {
	FindByIDForUser(id, userID uuid.UUID) (*models.Question, error)
	ListByJobDescription(jobDescriptionID uuid.UUID) ([]models.QuestionListItem, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// FindByIDForUser returns the question only when it belongs to the given
// user. Ownership mismatch surfaces as not-found.
func (r *questionRepository) FindByIDForUser(id, userID uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}

		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	return &question, nil
}

func (r *questionRepository) ListByJobDescription(jobDescriptionID uuid.UUID) ([]models.QuestionListItem, error) {
	var questions []models.Question
	err := r.db.
		Where("job_description_id = ?", jobDescriptionID).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	items := make([]models.QuestionListItem, 0, len(questions))
	for _, question := range questions {
		var attempts int64
		err := r.db.Model(&models.Response{}).
			Where("question_id = ?", question.ID).
			Count(&attempts).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count attempts: %w", err)
		}

		items = append(items, models.QuestionListItem{
			ID:               question.ID,
			JobDescriptionID: question.JobDescriptionID,
			QuestionText:     question.QuestionText,
			CreatedAt:        question.CreatedAt,
			AttemptsCount:    attempts,
		})
	}

	return items, nil
}
