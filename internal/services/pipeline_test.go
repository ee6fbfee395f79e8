package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"interviewiq/backend/internal/models"
	"interviewiq/backend/internal/repositories"
)

type fakeTranscriber struct {
	transcript string
	err        error
	calledPath string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.calledPath = audioPath
	if f.err != nil {
		return "", f.err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("staged audio missing: %w", err)
	}
	return f.transcript, nil
}

type memStorage struct {
	objects map[string][]byte
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) SaveAudio(ctx context.Context, r io.Reader, size int64, filename string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".webm"
	}

	key := fmt.Sprintf("audio/%s%s", uuid.New().String(), ext)
	m.objects[key] = content
	return key, nil
}

func (m *memStorage) Download(ctx context.Context, key string) ([]byte, error) {
	content, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return content, nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) FileURL(ctx context.Context, key string) (string, error) {
	return "https://storage.test/" + key, nil
}

type fakeEvaluator struct {
	evaluation *Evaluation
	err        error
}

func (f *fakeEvaluator) EvaluateResponse(ctx context.Context, jobDescriptionText, questionText, transcript string) (*Evaluation, error) {
	return f.evaluation, f.err
}

func testEvaluation() *Evaluation {
	return &Evaluation{
		Scores: EvaluationScores{
			Confidence:          7,
			ClarityStructure:    8,
			TechnicalDepth:      6,
			CommunicationSkills: 9,
			Relevance:           7,
		},
		Feedback: EvaluationFeedback{
			Confidence:          "ok",
			ClarityStructure:    "ok",
			TechnicalDepth:      "ok",
			CommunicationSkills: "ok",
			Relevance:           "ok",
		},
		OverallComment: "good answer",
		Raw:            []byte(`{"scores":{},"feedback":{},"overall_comment":"good answer"}`),
	}
}

type pipelineFixture struct {
	db          *gorm.DB
	pipeline    ResponsePipeline
	transcriber *fakeTranscriber
	storage     *memStorage
	evaluator   *fakeEvaluator
	userID      uuid.UUID
	questionID  uuid.UUID
}

func newPipelineFixture(t *testing.T, maxAudioSize int64) *pipelineFixture {
	t.Helper()

	db := newTestDB(t)

	userID := uuid.New()
	require.NoError(t, db.Create(&models.User{
		ID:           userID,
		Email:        "user@example.com",
		PasswordHash: "hash",
	}).Error)

	jdID := uuid.New()
	require.NoError(t, db.Create(&models.JobDescription{
		ID:              jdID,
		UserID:          userID,
		CompanyName:     "Acme",
		JobTitle:        "Backend Engineer",
		DescriptionText: "Build APIs in Go.",
		Status:          models.StatusQuestionsGenerated,
	}).Error)

	questionID := uuid.New()
	require.NoError(t, db.Create(&models.Question{
		ID:               questionID,
		JobDescriptionID: jdID,
		UserID:           userID,
		QuestionText:     "Tell me about a challenging project.",
	}).Error)

	transcriber := &fakeTranscriber{transcript: "I led the migration project."}
	storage := newMemStorage()
	evaluator := &fakeEvaluator{evaluation: testEvaluation()}

	pipeline := NewResponsePipeline(
		repositories.NewQuestionRepository(db),
		repositories.NewJobDescriptionRepository(db),
		repositories.NewResponseRepository(db),
		transcriber,
		storage,
		evaluator,
		maxAudioSize,
	)

	return &pipelineFixture{
		db:          db,
		pipeline:    pipeline,
		transcriber: transcriber,
		storage:     storage,
		evaluator:   evaluator,
		userID:      userID,
		questionID:  questionID,
	}
}

func (f *pipelineFixture) submit(audio []byte, filename string) (*SubmissionResult, error) {
	return f.pipeline.SubmitResponse(
		context.Background(),
		f.userID,
		f.questionID,
		bytes.NewReader(audio),
		int64(len(audio)),
		filename,
	)
}

func (f *pipelineFixture) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(model).Count(&count).Error)
	return count
}

func TestSubmitResponse_Success(t *testing.T) {
	f := newPipelineFixture(t, 1024)
	audio := []byte("fake audio bytes")

	result, err := f.submit(audio, "answer.webm")
	require.NoError(t, err)

	assert.Equal(t, "I led the migration project.", result.Transcript)
	assert.Equal(t, 7, result.Scores.Confidence)
	assert.Equal(t, "good answer", result.OverallComment)

	var response models.Response
	require.NoError(t, f.db.First(&response, "id = ?", result.ResponseID).Error)
	assert.Equal(t, f.questionID, response.QuestionID)
	assert.Equal(t, "I led the migration project.", response.Transcript)

	// Round-trip: the stored key resolves back to the uploaded bytes.
	stored, err := f.storage.Download(context.Background(), response.AudioPath)
	require.NoError(t, err)
	assert.Equal(t, audio, stored)

	assert.EqualValues(t, 1, f.countRows(t, &models.ResponseScore{}))

	// The staged temp file is gone after the request.
	require.NotEmpty(t, f.transcriber.calledPath)
	_, statErr := os.Stat(f.transcriber.calledPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSubmitResponse_OversizeRejectedBeforeProcessing(t *testing.T) {
	f := newPipelineFixture(t, 8)

	_, err := f.submit([]byte("way more than eight bytes"), "answer.webm")
	assert.ErrorIs(t, err, ErrAudioTooLarge)

	assert.Empty(t, f.transcriber.calledPath)
	assert.Empty(t, f.storage.objects)
	assert.EqualValues(t, 0, f.countRows(t, &models.Response{}))
}

func TestSubmitResponse_OtherUsersQuestionIsNotFound(t *testing.T) {
	f := newPipelineFixture(t, 1024)

	_, err := f.pipeline.SubmitResponse(
		context.Background(),
		uuid.New(), // not the owner
		f.questionID,
		bytes.NewReader([]byte("audio")),
		5,
		"answer.webm",
	)
	assert.ErrorIs(t, err, repositories.ErrQuestionNotFound)
	assert.EqualValues(t, 0, f.countRows(t, &models.Response{}))
}

func TestSubmitResponse_TranscriptionFailureLeavesNothingBehind(t *testing.T) {
	f := newPipelineFixture(t, 1024)
	f.transcriber.err = errors.New("transcription backend down")

	_, err := f.submit([]byte("fake audio"), "answer.webm")
	require.Error(t, err)

	assert.Empty(t, f.storage.objects)
	assert.EqualValues(t, 0, f.countRows(t, &models.Response{}))

	_, statErr := os.Stat(f.transcriber.calledPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSubmitResponse_EvaluationFailureKeepsResponse(t *testing.T) {
	f := newPipelineFixture(t, 1024)
	f.evaluator.err = errors.New("model returned garbage")

	_, err := f.submit([]byte("fake audio"), "answer.webm")
	require.Error(t, err)

	// The response row and transcript survive the failed evaluation.
	var response models.Response
	require.NoError(t, f.db.First(&response, "question_id = ?", f.questionID).Error)
	assert.Equal(t, "I led the migration project.", response.Transcript)
	assert.NotEmpty(t, response.Transcript)

	assert.EqualValues(t, 0, f.countRows(t, &models.ResponseScore{}))

	_, statErr := os.Stat(f.transcriber.calledPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSubmitResponse_EmptyTranscriptUsesFallback(t *testing.T) {
	f := newPipelineFixture(t, 1024)
	f.transcriber.transcript = NoSpeechTranscript

	result, err := f.submit([]byte("silent audio"), "answer.webm")
	require.NoError(t, err)
	assert.Equal(t, NoSpeechTranscript, result.Transcript)

	var response models.Response
	require.NoError(t, f.db.First(&response, "id = ?", result.ResponseID).Error)
	assert.Equal(t, NoSpeechTranscript, response.Transcript)
}

func TestSubmitResponse_MissingExtensionDefaultsToWebm(t *testing.T) {
	f := newPipelineFixture(t, 1024)

	result, err := f.submit([]byte("fake audio"), "")
	require.NoError(t, err)

	var response models.Response
	require.NoError(t, f.db.First(&response, "id = ?", result.ResponseID).Error)
	assert.True(t, strings.HasSuffix(response.AudioPath, ".webm"), "got key %q", response.AudioPath)
	assert.True(t, strings.HasPrefix(response.AudioPath, "audio/"), "got key %q", response.AudioPath)
}
