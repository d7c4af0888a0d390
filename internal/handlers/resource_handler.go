package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type resourceStore interface {
	Create(ctx context.Context, input repository.ResourceInput) (*models.Resource, error)
	Update(ctx context.Context, resourceID int64, input repository.ResourceInput) (*models.Resource, error)
	GetByID(ctx context.Context, resourceID int64) (*models.Resource, error)
	List(ctx context.Context, category string, crisisOnly bool) ([]models.Resource, error)
}

type ResourceHandler struct {
	resourceRepo resourceStore
}

type resourceRequest struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	IsCrisis    bool    `json:"is_crisis"`
}

func NewResourceHandler(resourceRepo resourceStore) *ResourceHandler {
	return &ResourceHandler{resourceRepo: resourceRepo}
}

func (h *ResourceHandler) ListResources(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))

	resources, err := h.resourceRepo.List(c.Context(), category, false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list resources"})
	}

	return c.JSON(fiber.Map{"resources": resources})
}

// ListCrisisResources serves the crisis hotlines and emergency material.
// It is mounted outside the authenticated group so someone in distress
// never hits a login wall.
func (h *ResourceHandler) ListCrisisResources(c *fiber.Ctx) error {
	resources, err := h.resourceRepo.List(c.Context(), "", true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list crisis resources"})
	}

	return c.JSON(fiber.Map{"resources": resources})
}

func (h *ResourceHandler) GetResource(c *fiber.Ctx) error {
	resourceID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || resourceID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}

	resource, err := h.resourceRepo.GetByID(c.Context(), resourceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch resource"})
	}

	return c.JSON(fiber.Map{"resource": resource})
}

func (h *ResourceHandler) CreateResource(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req resourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if message := validateResourceRequest(req); message != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}

	resource, err := h.resourceRepo.Create(c.Context(), resourceInputFromRequest(req))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create resource"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"resource": resource})
}

func (h *ResourceHandler) UpdateResource(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	resourceID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || resourceID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}

	var req resourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if message := validateResourceRequest(req); message != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}

	resource, err := h.resourceRepo.Update(c.Context(), resourceID, resourceInputFromRequest(req))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update resource"})
	}

	return c.JSON(fiber.Map{"resource": resource})
}

func validateResourceRequest(req resourceRequest) string {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(req.Category) == "" {
		return "category is required"
	}
	return ""
}

func resourceInputFromRequest(req resourceRequest) repository.ResourceInput {
	return repository.ResourceInput{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		URL:         req.URL,
		IsCrisis:    req.IsCrisis,
	}
}
