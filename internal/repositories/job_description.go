package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interviewiq/backend/internal/models"
)

var (
	ErrJobDescriptionNotFound = errors.New("job description not found")

	// ErrStatusAlreadyFinal is returned when a second status transition is
	// attempted on a job description that already left the pending state.
	ErrStatusAlreadyFinal = errors.New("job description status is already final")
)

type JobDescriptionRepository interface {
	Create(jd *models.JobDescription) error
	FindByID(id uuid.UUID) (*models.JobDescription, error)
	FindByIDForUser(id, userID uuid.UUID) (*models.JobDescription, error)
	ListWithProgress(userID uuid.UUID) ([]models.JobDescriptionListItem, error)
	MarkQuestionsGenerated(id uuid.UUID, questions []models.Question) error
	MarkError(id uuid.UUID, errorMsg string) error
	Delete(id, userID uuid.UUID) error
}

type jobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepository{db: db}
}

func (r *jobDescriptionRepository) Create(jd *models.JobDescription) error {
	if err := r.db.Create(jd).Error; err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}

	return nil
}

func (r *jobDescriptionRepository) FindByID(id uuid.UUID) (*models.JobDescription, error) {
	var jd models.JobDescription
	if err := r.db.Where("id = ?", id).First(&jd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobDescriptionNotFound
		}

		return nil, fmt.Errorf("failed to find job description: %w", err)
	}

	return &jd, nil
}

// FindByIDForUser returns the job description only when it belongs to the
// given user. Ownership mismatch surfaces as not-found.
func (r *jobDescriptionRepository) FindByIDForUser(id, userID uuid.UUID) (*models.JobDescription, error) {
	var jd models.JobDescription
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&jd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobDescriptionNotFound
		}

		return nil, fmt.Errorf("failed to find job description: %w", err)
	}

	return &jd, nil
}

func (r *jobDescriptionRepository) ListWithProgress(userID uuid.UUID) ([]models.JobDescriptionListItem, error) {
	var jds []models.JobDescription
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&jds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}

	items := make([]models.JobDescriptionListItem, 0, len(jds))
	for _, jd := range jds {
		var totalQuestions int64
		err := r.db.Model(&models.Question{}).
			Where("job_description_id = ?", jd.ID).
			Count(&totalQuestions).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count questions: %w", err)
		}

		var answeredQuestions int64
		err = r.db.Model(&models.Response{}).
			Distinct("question_id").
			Joins("JOIN questions ON questions.id = responses.question_id").
			Where("questions.job_description_id = ?", jd.ID).
			Count(&answeredQuestions).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count answered questions: %w", err)
		}

		items = append(items, models.JobDescriptionListItem{
			ID:                jd.ID,
			CompanyName:       jd.CompanyName,
			JobTitle:          jd.JobTitle,
			Status:            jd.Status,
			CreatedAt:         jd.CreatedAt,
			TotalQuestions:    totalQuestions,
			AnsweredQuestions: answeredQuestions,
		})
	}

	return items, nil
}

// MarkQuestionsGenerated persists the generated questions and moves the job
// description out of pending in a single transaction. Exactly one of
// MarkQuestionsGenerated and MarkError can ever succeed for a given row.
func (r *jobDescriptionRepository) MarkQuestionsGenerated(id uuid.UUID, questions []models.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return fmt.Errorf("failed to create questions: %w", err)
			}
		}

		result := tx.Model(&models.JobDescription{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Update("status", models.StatusQuestionsGenerated)

		if result.Error != nil {
			return fmt.Errorf("failed to update status: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrStatusAlreadyFinal
		}

		return nil
	})
}

func (r *jobDescriptionRepository) MarkError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.JobDescription{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":        models.StatusError,
			"error_message": errorMsg,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrStatusAlreadyFinal
	}

	return nil
}

// Delete removes a user's job description together with its questions,
// responses and scores. Child rows are removed explicitly so the cascade
// does not depend on database-level constraints.
func (r *jobDescriptionRepository) Delete(id, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var jd models.JobDescription
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&jd).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobDescriptionNotFound
			}

			return fmt.Errorf("failed to find job description: %w", err)
		}

		questionIDs := tx.Model(&models.Question{}).
			Select("id").
			Where("job_description_id = ?", id)

		responseIDs := tx.Model(&models.Response{}).
			Select("id").
			Where("question_id IN (?)", questionIDs)

		if err := tx.Where("response_id IN (?)", responseIDs).Delete(&models.ResponseScore{}).Error; err != nil {
			return fmt.Errorf("failed to delete response scores: %w", err)
		}

		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Response{}).Error; err != nil {
			return fmt.Errorf("failed to delete responses: %w", err)
		}

		if err := tx.Where("job_description_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		if err := tx.Delete(&jd).Error; err != nil {
			return fmt.Errorf("failed to delete job description: %w", err)
		}

		return nil
	})
}
