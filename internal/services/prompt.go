package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionGenerationPrompt creates the prompt for generating interview
// questions from a job description.
func (pb *PromptBuilder) BuildQuestionGenerationPrompt(descriptionText, companyName, jobTitle string) string {
	return fmt.Sprintf(`You are an expert interview coach. Based on the following job description, generate exactly 5 behavioral interview questions that are tailored to this specific role.

Company: %s
Job Title: %s

Job Description:
%s

Generate 5 behavioral interview questions that:
1. Are specific to this role and company
2. Follow the STAR method (Situation, Task, Action, Result)
3. Test relevant competencies for this position
4. Are clear and professionally worded
5. Cover different aspects of the role

IMPORTANT: Return ONLY a valid JSON array of 5 question strings. Do not include any markdown formatting, code blocks, or additional text. Just the raw JSON array.

Example of correct format:
["Question 1?", "Question 2?", "Question 3?", "Question 4?", "Question 5?"]`,
		companyName, jobTitle, descriptionText)
}

// BuildEvaluationPrompt creates the prompt for scoring a transcribed answer
// against the question and its job description.
func (pb *PromptBuilder) BuildEvaluationPrompt(jobDescriptionText, questionText, transcript string) string {
	return fmt.Sprintf(`You are an expert interview coach evaluating a candidate's response to a behavioral interview question.

Job Description:
%s

Interview Question:
%s

Candidate's Response:
%s

Evaluate the response on the following criteria (score 1-10 for each):

1. **Confidence**: How confident and self-assured does the candidate sound?
2. **Clarity/Structure**: How well-structured and clear is the response? Does it follow STAR method?
3. **Technical Depth**: How well does the response demonstrate relevant technical/domain knowledge?
4. **Communication Skills**: How effectively does the candidate communicate their ideas?
5. **Relevance/Alignment**: How well does the response align with the job requirements?

For each category, provide:
- A score from 1 to 10
- Concise, actionable feedback (2-3 sentences)

Also provide an overall comment summarizing the response quality and key areas for improvement.

IMPORTANT: Return ONLY a valid JSON object with this exact structure (no markdown, no code blocks):
{
  "scores": {
    "confidence": <number 1-10>,
    "clarity_structure": <number 1-10>,
    "technical_depth": <number 1-10>,
    "communication_skills": <number 1-10>,
    "relevance": <number 1-10>
  },
  "feedback": {
    "confidence": "<feedback text>",
    "clarity_structure": "<feedback text>",
    "technical_depth": "<feedback text>",
    "communication_skills": "<feedback text>",
    "relevance": "<feedback text>"
  },
  "overall_comment": "<overall comment text>"
}`,
		jobDescriptionText, questionText, transcript)
}
