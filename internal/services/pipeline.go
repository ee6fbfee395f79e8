package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"interviewiq/backend/internal/models"
	"interviewiq/backend/internal/repositories"
)

// ErrAudioTooLarge is returned before any processing when the upload
// exceeds the configured limit.
var ErrAudioTooLarge = errors.New("audio file too large")

// SubmissionResult is returned to the client after a completed submission.
type SubmissionResult struct {
	ResponseID     uuid.UUID          `json:"response_id"`
	Transcript     string             `json:"transcript"`
	Scores         EvaluationScores   `json:"scores"`
	Feedback       EvaluationFeedback `json:"feedback"`
	OverallComment string             `json:"overall_comment"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ResponsePipeline runs the audio submission flow: ownership check, size
// check, transcription, durable upload, response persistence, evaluation,
// score persistence.
type ResponsePipeline interface {
	SubmitResponse(ctx context.Context, userID, questionID uuid.UUID, audio io.Reader, size int64, filename string) (*SubmissionResult, error)
}

type responsePipeline struct {
	questionRepo repositories.QuestionRepository
	jdRepo       repositories.JobDescriptionRepository
	responseRepo repositories.ResponseRepository
	transcriber  TranscriptionService
	storage      StorageService
	evaluator    EvaluatorService
	maxAudioSize int64
}

func NewResponsePipeline(
	questionRepo repositories.QuestionRepository,
	jdRepo repositories.JobDescriptionRepository,
	responseRepo repositories.ResponseRepository,
	transcriber TranscriptionService,
	storage StorageService,
	evaluator EvaluatorService,
	maxAudioSize int64,
) ResponsePipeline {
	return &responsePipeline{
		questionRepo: questionRepo,
		jdRepo:       jdRepo,
		responseRepo: responseRepo,
		transcriber:  transcriber,
		storage:      storage,
		evaluator:    evaluator,
		maxAudioSize: maxAudioSize,
	}
}

// SubmitResponse implements ResponsePipeline.
//
// Ordering invariants: transcription completes before the durable upload is
// attempted, and the response row is committed before evaluation runs. A
// response that reached the database survives any later failure, so a
// spoken answer and its transcript are never lost to a scoring error.
func (p *responsePipeline) SubmitResponse(ctx context.Context, userID, questionID uuid.UUID, audio io.Reader, size int64, filename string) (*SubmissionResult, error) {
	question, err := p.questionRepo.FindByIDForUser(questionID, userID)
	if err != nil {
		return nil, err
	}

	if size > p.maxAudioSize {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrAudioTooLarge, p.maxAudioSize)
	}

	jd, err := p.jdRepo.FindByID(question.JobDescriptionID)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		filename = "response.webm"
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".webm"
	}

	// The transcriber needs random file access, so the upload is staged in
	// a request-scoped temp file that is removed on every exit path.
	tempFile, err := os.CreateTemp("", "response-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := io.Copy(tempFile, audio); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to stage audio: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage audio: %w", err)
	}

	log.Printf("🎙️  Transcribing audio for question %s\n", questionID)
	transcript, err := p.transcriber.Transcribe(ctx, tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}

	// Upload only after transcription succeeded, so the store never holds
	// audio that could not be processed.
	staged, err := os.Open(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen staged audio: %w", err)
	}
	audioPath, err := p.storage.SaveAudio(ctx, staged, size, filename)
	staged.Close()
	if err != nil {
		return nil, err
	}
	log.Printf("💾 Audio saved to storage: %s\n", audioPath)

	response := &models.Response{
		ID:         uuid.New(),
		QuestionID: question.ID,
		UserID:     userID,
		AudioPath:  audioPath,
		Transcript: transcript,
	}

	if err := p.responseRepo.Create(response); err != nil {
		return nil, err
	}

	log.Printf("🤖 Evaluating response %s\n", response.ID)
	evaluation, err := p.evaluator.EvaluateResponse(ctx, jd.DescriptionText, question.QuestionText, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate response: %w", err)
	}

	score := &models.ResponseScore{
		ID:                       uuid.New(),
		ResponseID:               response.ID,
		ScoresJSON:               datatypes.JSON(evaluation.Raw),
		ScoreConfidence:          evaluation.Scores.Confidence,
		ScoreClarityStructure:    evaluation.Scores.ClarityStructure,
		ScoreTechnicalDepth:      evaluation.Scores.TechnicalDepth,
		ScoreCommunicationSkills: evaluation.Scores.CommunicationSkills,
		ScoreRelevance:           evaluation.Scores.Relevance,
	}

	if err := p.responseRepo.CreateScore(score); err != nil {
		return nil, err
	}

	log.Printf("✅ Response %s processed successfully\n", response.ID)

	return &SubmissionResult{
		ResponseID:     response.ID,
		Transcript:     transcript,
		Scores:         evaluation.Scores,
		Feedback:       evaluation.Feedback,
		OverallComment: evaluation.OverallComment,
		CreatedAt:      response.CreatedAt,
	}, nil
}
