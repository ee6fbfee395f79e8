package services

import (
	"context"
	"encoding/json"
	"fmt"
)

type EvaluationScores struct {
	Confidence          int `json:"confidence"`
	ClarityStructure    int `json:"clarity_structure"`
	TechnicalDepth      int `json:"technical_depth"`
	CommunicationSkills int `json:"communication_skills"`
	Relevance           int `json:"relevance"`
}

type EvaluationFeedback struct {
	Confidence          string `json:"confidence"`
	ClarityStructure    string `json:"clarity_structure"`
	TechnicalDepth      string `json:"technical_depth"`
	CommunicationSkills string `json:"communication_skills"`
	Relevance           string `json:"relevance"`
}

// Evaluation is the structured result of scoring one transcribed answer.
// Raw holds the cleaned JSON payload exactly as the model produced it.
type Evaluation struct {
	Scores         EvaluationScores   `json:"scores"`
	Feedback       EvaluationFeedback `json:"feedback"`
	OverallComment string             `json:"overall_comment"`
	Raw            json.RawMessage    `json:"-"`
}

type EvaluatorService interface {
	EvaluateResponse(ctx context.Context, jobDescriptionText, questionText, transcript string) (*Evaluation, error)
}

type evaluatorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
}

func NewEvaluatorService(geminiService GeminiService) EvaluatorService {
	return &evaluatorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
	}
}

type evaluationPayload struct {
	Scores         *EvaluationScores   `json:"scores"`
	Feedback       *EvaluationFeedback `json:"feedback"`
	OverallComment string              `json:"overall_comment"`
}

// EvaluateResponse implements EvaluatorService.
func (e *evaluatorService) EvaluateResponse(ctx context.Context, jobDescriptionText, questionText, transcript string) (*Evaluation, error) {
	prompt := e.promptBuilder.BuildEvaluationPrompt(jobDescriptionText, questionText, transcript)

	response, err := e.geminiService.GenerateText(ctx, prompt, 0.3)
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation: %w", err)
	}

	raw := extractJSON(response)

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// Missing top-level keys are a structural failure, distinct from a
	// JSON decode failure.
	if payload.Scores == nil || payload.Feedback == nil {
		return nil, fmt.Errorf("%w: missing scores or feedback", ErrUnexpectedShape)
	}

	scores := *payload.Scores
	scores.Confidence = clampScore(scores.Confidence)
	scores.ClarityStructure = clampScore(scores.ClarityStructure)
	scores.TechnicalDepth = clampScore(scores.TechnicalDepth)
	scores.CommunicationSkills = clampScore(scores.CommunicationSkills)
	scores.Relevance = clampScore(scores.Relevance)

	return &Evaluation{
		Scores:         scores,
		Feedback:       *payload.Feedback,
		OverallComment: payload.OverallComment,
		Raw:            json.RawMessage(raw),
	}, nil
}

// clampScore forces a sub-score into the declared 1-10 range. The prompt
// asks the model to respect the range already; this guards the rows against
// the occasional out-of-range answer.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
