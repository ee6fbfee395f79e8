package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGemini struct {
	text string
	err  error
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return f.text, f.err
}

func TestGenerateQuestions_ExactlyFive(t *testing.T) {
	gen := NewQuestionGeneratorService(&fakeGemini{
		text: `["Q1?", "Q2?", "Q3?", "Q4?", "Q5?"]`,
	})

	questions, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?"}, questions)
}

func TestGenerateQuestions_TruncatesExtra(t *testing.T) {
	gen := NewQuestionGeneratorService(&fakeGemini{
		text: `["Q1?", "Q2?", "Q3?", "Q4?", "Q5?", "Q6?", "Q7?"]`,
	})

	questions, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerJobDescription)
	assert.Equal(t, "Q5?", questions[4])
}

func TestGenerateQuestions_PadsMissing(t *testing.T) {
	gen := NewQuestionGeneratorService(&fakeGemini{
		text: `["Q1?", "Q2?", "Q3?"]`,
	})

	questions, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerJobDescription)
	assert.Equal(t, "Q3?", questions[2])
	assert.Contains(t, questions[3], "Backend Engineer")
	assert.Contains(t, questions[4], "Backend Engineer")
}

func TestGenerateQuestions_StripsCodeFences(t *testing.T) {
	gen := NewQuestionGeneratorService(&fakeGemini{
		text: "```json\n[\"Q1?\", \"Q2?\", \"Q3?\", \"Q4?\", \"Q5?\"]\n```",
	})

	questions, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	require.NoError(t, err)
	assert.Len(t, questions, QuestionsPerJobDescription)
}

func TestGenerateQuestions_NotAList(t *testing.T) {
	gen := NewQuestionGeneratorService(&fakeGemini{
		text: `{"questions": ["Q1?"]}`,
	})

	_, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestGenerateQuestions_MalformedJSON(t *testing.T) {
	gen := NewQuestionGeneratorService(&fakeGemini{
		text: `here are your questions: 1. Tell me about...`,
	})

	_, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGenerateQuestions_UpstreamFailurePropagates(t *testing.T) {
	upstream := errors.New("model unavailable")
	gen := NewQuestionGeneratorService(&fakeGemini{err: upstream})

	_, err := gen.GenerateQuestions(context.Background(), "desc", "Acme", "Backend Engineer")
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
	assert.NotErrorIs(t, err, ErrUnexpectedShape)
}
