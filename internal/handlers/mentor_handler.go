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

type mentorProfileStore interface {
	ListAccepting(ctx context.Context) ([]models.MentorProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error)
	Upsert(ctx context.Context, userID int64, input repository.MentorProfileInput) (*models.MentorProfile, error)
}

type MentorHandler struct {
	mentorRepo mentorProfileStore
}

func NewMentorHandler(mentorRepo mentorProfileStore) *MentorHandler {
	return &MentorHandler{mentorRepo: mentorRepo}
}

type mentorProfileRequest struct {
	FullName          string   `json:"full_name"`
	Title             string   `json:"title"`
	Bio               string   `json:"bio"`
	Specializations   []string `json:"specializations"`
	AcceptingBookings bool     `json:"accepting_bookings"`
}

func (h *MentorHandler) ListMentors(c *fiber.Ctx) error {
	if _, ok := c.Locals("role").(string); !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	mentors, err := h.mentorRepo.ListAccepting(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list mentors"})
	}

	return c.JSON(fiber.Map{"mentors": mentors})
}

func (h *MentorHandler) GetMentor(c *fiber.Ctx) error {
	if _, ok := c.Locals("role").(string); !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	mentorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || mentorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mentor id"})
	}

	mentor, err := h.mentorRepo.GetByUserID(c.Context(), mentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch mentor"})
	}

	return c.JSON(fiber.Map{"mentor": mentor})
}

func (h *MentorHandler) UpdateMyProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req mentorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if message := validateMentorProfileRequest(req); message != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}

	profile, err := h.mentorRepo.Upsert(c.Context(), userID, repository.MentorProfileInput{
		FullName:          strings.TrimSpace(req.FullName),
		Title:             strings.TrimSpace(req.Title),
		Bio:               strings.TrimSpace(req.Bio),
		Specializations:   req.Specializations,
		AcceptingBookings: req.AcceptingBookings,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"mentor": profile})
}

func validateMentorProfileRequest(req mentorProfileRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if strings.TrimSpace(req.Bio) == "" {
		return "bio is required"
	}
	for _, specialization := range req.Specializations {
		if strings.TrimSpace(specialization) == "" {
			return "specializations must not contain empty values"
		}
	}
	return ""
}
