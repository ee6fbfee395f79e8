package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interviewiq/backend/internal/middleware"
	"interviewiq/backend/internal/repositories"
	"interviewiq/backend/internal/services"
)

type ResponseHandler struct {
	pipeline     services.ResponsePipeline
	questionRepo repositories.QuestionRepository
	responseRepo repositories.ResponseRepository
	storage      services.StorageService
}

func NewResponseHandler(
	pipeline services.ResponsePipeline,
	questionRepo repositories.QuestionRepository,
	responseRepo repositories.ResponseRepository,
	storage services.StorageService,
) *ResponseHandler {
	return &ResponseHandler{
		pipeline:     pipeline,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		storage:      storage,
	}
}

type responseListItem struct {
	ResponseID uuid.UUID                  `json:"response_id"`
	Transcript string                     `json:"transcript"`
	Scores     *services.EvaluationScores `json:"scores"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// HandleSubmit handles POST /api/questions/:id/responses
func (h *ResponseHandler) HandleSubmit(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID format",
		})
	}

	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio_file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}
	defer file.Close()

	result, err := h.pipeline.SubmitResponse(
		c.Context(),
		middleware.UserID(c),
		questionID,
		file,
		fileHeader.Size,
		fileHeader.Filename,
	)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrQuestionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		case errors.Is(err, services.ErrAudioTooLarge):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Audio file size must be less than the configured maximum",
			})
		default:
			log.Printf("❌ Failed to process response: %v\n", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process response",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleList handles GET /api/questions/:id/responses
func (h *ResponseHandler) HandleList(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID format",
		})
	}

	if _, err := h.questionRepo.FindByIDForUser(questionID, middleware.UserID(c)); err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load question",
		})
	}

	responses, err := h.responseRepo.ListByQuestion(questionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list responses",
		})
	}

	items := make([]responseListItem, 0, len(responses))
	for _, response := range responses {
		item := responseListItem{
			ResponseID: response.ID,
			Transcript: response.Transcript,
			CreatedAt:  response.CreatedAt,
		}

		if response.Score != nil {
			item.Scores = &services.EvaluationScores{
				Confidence:          response.Score.ScoreConfidence,
				ClarityStructure:    response.Score.ScoreClarityStructure,
				TechnicalDepth:      response.Score.ScoreTechnicalDepth,
				CommunicationSkills: response.Score.ScoreCommunicationSkills,
				Relevance:           response.Score.ScoreRelevance,
			}
		}

		items = append(items, item)
	}

	return c.JSON(items)
}

// HandleGetAudio handles GET /api/responses/:id/audio and redirects to the
// stored audio file.
func (h *ResponseHandler) HandleGetAudio(c *fiber.Ctx) error {
	responseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid response ID format",
		})
	}

	response, err := h.responseRepo.FindByIDForUser(responseID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrResponseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Response not found",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load response",
		})
	}

	url, err := h.storage.FileURL(c.Context(), response.AudioPath)
	if err != nil {
		log.Printf("❌ Failed to resolve audio URL: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve audio URL",
		})
	}

	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}
