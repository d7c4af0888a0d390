package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
	"github.com/Rohit-NITW/harmony-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type bookingApplicationService interface {
	CreateBooking(ctx context.Context, studentID int64, input services.CreateBookingInput) (*models.Booking, error)
	Availability(ctx context.Context, sessionDate string, sessionType string, mentorID int64) ([]models.SlotAvailability, error)
	ListBookings(ctx context.Context, actorID int64, role string, filter repository.BookingListFilter) ([]models.Booking, error)
	GetBooking(ctx context.Context, actorID int64, role string, bookingID int64) (*models.Booking, error)
	UpdateStatus(ctx context.Context, actorID int64, role string, bookingID int64, requestedStatus string, mentorNotes *string) (*models.Booking, error)
}

type BookingHandler struct {
	service bookingApplicationService
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type createBookingRequest struct {
	MentorID    int64   `json:"mentor_id"`
	SessionDate string  `json:"session_date"`
	TimeSlot    string  `json:"time_slot"`
	SessionType string  `json:"session_type"`
	Notes       *string `json:"notes"`
	StudentInfo struct {
		Name  string  `json:"name"`
		Email string  `json:"email"`
		Phone *string `json:"phone"`
	} `json:"student_info"`
}

type updateBookingStatusRequest struct {
	Status      string  `json:"status"`
	MentorNotes *string `json:"mentor_notes"`
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleStudent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "notes must not be empty"})
	}

	booking, err := h.service.CreateBooking(c.Context(), studentID, services.CreateBookingInput{
		MentorID:     req.MentorID,
		SessionDate:  strings.TrimSpace(req.SessionDate),
		TimeSlot:     strings.TrimSpace(req.TimeSlot),
		SessionType:  strings.TrimSpace(req.SessionType),
		Notes:        req.Notes,
		StudentName:  req.StudentInfo.Name,
		StudentEmail: req.StudentInfo.Email,
		StudentPhone: req.StudentInfo.Phone,
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) GetAvailability(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleStudent && role != models.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	sessionDate := strings.TrimSpace(c.Query("date"))
	if sessionDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date is required"})
	}

	sessionType := strings.TrimSpace(c.Query("session_type"))
	if sessionType == "" {
		sessionType = models.SessionTypeIndividual
	}

	var mentorID int64
	if raw := strings.TrimSpace(c.Query("mentor_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mentor_id must be a positive integer"})
		}
		mentorID = parsed
	}

	slots, err := h.service.Availability(c.Context(), sessionDate, sessionType, mentorID)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"slots": slots})
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleStudent && role != models.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookings, err := h.service.ListBookings(c.Context(), actorID, role, repository.BookingListFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Date:   strings.TrimSpace(c.Query("date")),
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleStudent && role != models.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := h.service.GetBooking(c.Context(), actorID, role, bookingID)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req updateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	booking, err := h.service.UpdateStatus(c.Context(), actorID, role, bookingID, req.Status, req.MentorNotes)
	if err != nil {
		return mapBookingError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func mapBookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMentorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	case errors.Is(err, services.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Booking store is unavailable"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process booking request"})
	}
}

func parseActorID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
