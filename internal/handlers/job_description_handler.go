package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interviewiq/backend/internal/middleware"
	"interviewiq/backend/internal/models"
	"interviewiq/backend/internal/repositories"
	"interviewiq/backend/internal/services"
)

type JobDescriptionHandler struct {
	jdService    services.JobDescriptionService
	jdRepo       repositories.JobDescriptionRepository
	questionRepo repositories.QuestionRepository
	pdfParser    services.PDFParserService
}

func NewJobDescriptionHandler(
	jdService services.JobDescriptionService,
	jdRepo repositories.JobDescriptionRepository,
	questionRepo repositories.QuestionRepository,
	pdfParser services.PDFParserService,
) *JobDescriptionHandler {
	return &JobDescriptionHandler{
		jdService:    jdService,
		jdRepo:       jdRepo,
		questionRepo: questionRepo,
		pdfParser:    pdfParser,
	}
}

// HandleCreate handles POST /api/job-descriptions
func (h *JobDescriptionHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobDescriptionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.DescriptionText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company_name, job_title and description_text are required",
		})
	}

	jd, err := h.jdService.Create(c.Context(), middleware.UserID(c), req.CompanyName, req.JobTitle, req.DescriptionText)
	if err != nil {
		log.Printf("❌ Failed to create job description: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process job description",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(jd)
}

// HandleCreateFromUpload handles POST /api/job-descriptions/upload with a
// PDF job description instead of raw text.
func (h *JobDescriptionHandler) HandleCreateFromUpload(c *fiber.Ctx) error {
	companyName := strings.TrimSpace(c.FormValue("company_name"))
	jobTitle := strings.TrimSpace(c.FormValue("job_title"))
	if companyName == "" || jobTitle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company_name and job_title are required",
		})
	}

	fileHeader, err := c.FormFile("job_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}
	defer file.Close()

	descriptionText, err := h.pdfParser.ExtractText(file, fileHeader.Size)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to extract text from PDF",
		})
	}

	jd, err := h.jdService.Create(c.Context(), middleware.UserID(c), companyName, jobTitle, descriptionText)
	if err != nil {
		log.Printf("❌ Failed to create job description: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process job description",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(jd)
}

// HandleList handles GET /api/job-descriptions
func (h *JobDescriptionHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.jdRepo.ListWithProgress(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list job descriptions",
		})
	}

	return c.JSON(items)
}

// HandleGetQuestions handles GET /api/job-descriptions/:id/questions
func (h *JobDescriptionHandler) HandleGetQuestions(c *fiber.Ctx) error {
	jdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job description ID format",
		})
	}

	if _, err := h.jdRepo.FindByIDForUser(jdID, middleware.UserID(c)); err != nil {
		if errors.Is(err, repositories.ErrJobDescriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job description not found",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job description",
		})
	}

	items, err := h.questionRepo.ListByJobDescription(jdID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list questions",
		})
	}

	return c.JSON(items)
}

// HandleDelete handles DELETE /api/job-descriptions/:id
func (h *JobDescriptionHandler) HandleDelete(c *fiber.Ctx) error {
	jdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job description ID format",
		})
	}

	if err := h.jdRepo.Delete(jdID, middleware.UserID(c)); err != nil {
		if errors.Is(err, repositories.ErrJobDescriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job description not found",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete job description",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
