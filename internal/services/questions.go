package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

// QuestionsPerJobDescription is the number of interview questions generated
// for every job description.
const QuestionsPerJobDescription = 5

var (
	// ErrMalformedResponse marks model output that is not decodable as JSON.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrUnexpectedShape marks model output that is valid JSON but not the
	// structure the prompt asked for.
	ErrUnexpectedShape = errors.New("unexpected model response shape")
)

type QuestionGeneratorService interface {
	GenerateQuestions(ctx context.Context, descriptionText, companyName, jobTitle string) ([]string, error)
}

type questionGeneratorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
}

func NewQuestionGeneratorService(geminiService GeminiService) QuestionGeneratorService {
	return &questionGeneratorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
	}
}

// GenerateQuestions implements QuestionGeneratorService. It always returns
// exactly QuestionsPerJobDescription questions on success: oversized model
// output is truncated and undersized output is padded with a generic
// question referencing the job title. No re-prompting happens on repair.
func (s *questionGeneratorService) GenerateQuestions(ctx context.Context, descriptionText, companyName, jobTitle string) ([]string, error) {
	prompt := s.promptBuilder.BuildQuestionGenerationPrompt(descriptionText, companyName, jobTitle)

	response, err := s.geminiService.GenerateText(ctx, prompt, 0.7)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	raw := extractJSON(response)

	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	list, ok := decoded.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array of questions", ErrUnexpectedShape)
	}

	questions := make([]string, 0, len(list))
	for _, item := range list {
		text, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected question strings", ErrUnexpectedShape)
		}
		questions = append(questions, text)
	}

	if len(questions) != QuestionsPerJobDescription {
		log.Printf("⚠️  Expected %d questions but got %d, adjusting...\n", QuestionsPerJobDescription, len(questions))
		if len(questions) > QuestionsPerJobDescription {
			questions = questions[:QuestionsPerJobDescription]
		} else {
			for len(questions) < QuestionsPerJobDescription {
				questions = append(questions, fmt.Sprintf("Tell me about a time when you demonstrated skills relevant to this %s role?", jobTitle))
			}
		}
	}

	return questions, nil
}

// extractJSON strips markdown code fences and trims the text down to the
// outermost JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startArr != -1 && endArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj) {
		return text[startArr : endArr+1]
	}

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}
