package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"interviewiq/backend/internal/models"
	"interviewiq/backend/internal/repositories"
)

// JobDescriptionService orchestrates job description ingestion: the record
// is persisted as pending before generation starts, then moved exactly once
// to questions_generated or error.
type JobDescriptionService interface {
	Create(ctx context.Context, userID uuid.UUID, companyName, jobTitle, descriptionText string) (*models.JobDescription, error)
}

type jobDescriptionService struct {
	jdRepo    repositories.JobDescriptionRepository
	generator QuestionGeneratorService
}

func NewJobDescriptionService(
	jdRepo repositories.JobDescriptionRepository,
	generator QuestionGeneratorService,
) JobDescriptionService {
	return &jobDescriptionService{
		jdRepo:    jdRepo,
		generator: generator,
	}
}

// Create implements JobDescriptionService. Generation failures are recorded
// on the row itself and never fail the creation; the returned record always
// carries the terminal status of the generation attempt.
func (s *jobDescriptionService) Create(ctx context.Context, userID uuid.UUID, companyName, jobTitle, descriptionText string) (*models.JobDescription, error) {
	jd := &models.JobDescription{
		ID:              uuid.New(),
		UserID:          userID,
		CompanyName:     companyName,
		JobTitle:        jobTitle,
		DescriptionText: descriptionText,
		Status:          models.StatusPending,
	}

	if err := s.jdRepo.Create(jd); err != nil {
		return nil, err
	}

	questionTexts, err := s.generator.GenerateQuestions(ctx, descriptionText, companyName, jobTitle)
	if err != nil {
		log.Printf("❌ Failed to generate questions for job description %s: %v\n", jd.ID, err)
		if markErr := s.jdRepo.MarkError(jd.ID, err.Error()); markErr != nil {
			return nil, markErr
		}

		return s.jdRepo.FindByID(jd.ID)
	}

	questions := make([]models.Question, 0, len(questionTexts))
	for _, text := range questionTexts {
		questions = append(questions, models.Question{
			ID:               uuid.New(),
			JobDescriptionID: jd.ID,
			UserID:           userID,
			QuestionText:     text,
		})
	}

	if err := s.jdRepo.MarkQuestionsGenerated(jd.ID, questions); err != nil {
		return nil, err
	}

	log.Printf("✅ Generated %d questions for job description %s\n", len(questions), jd.ID)

	return s.jdRepo.FindByID(jd.ID)
}
