package handlers

import (
	"context"
	"strings"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type assessmentStore interface {
	Create(ctx context.Context, input repository.CreateAssessmentInput) (*models.Assessment, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Assessment, error)
}

type AssessmentHandler struct {
	assessmentRepo assessmentStore
}

type submitAssessmentRequest struct {
	Instrument string `json:"instrument"`
	Score      int    `json:"score"`
	Severity   string `json:"severity"`
}

func NewAssessmentHandler(assessmentRepo assessmentStore) *AssessmentHandler {
	return &AssessmentHandler{assessmentRepo: assessmentRepo}
}

func (h *AssessmentHandler) SubmitAssessment(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleStudent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req submitAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if message := validateAssessmentRequest(req); message != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}

	assessment, err := h.assessmentRepo.Create(c.Context(), repository.CreateAssessmentInput{
		UserID:     userID,
		Instrument: strings.ToLower(strings.TrimSpace(req.Instrument)),
		Score:      req.Score,
		Severity:   strings.ToLower(strings.TrimSpace(req.Severity)),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record assessment"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assessment": assessment})
}

func (h *AssessmentHandler) ListMyAssessments(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleStudent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	assessments, err := h.assessmentRepo.ListByUser(c.Context(), userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list assessments"})
	}

	return c.JSON(fiber.Map{"assessments": assessments})
}
