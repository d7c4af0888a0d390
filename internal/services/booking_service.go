package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/Rohit-NITW/harmony-backend/internal/notify"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrSlotTaken          = errors.New("slot taken")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMentorNotFound     = errors.New("mentor not found")
	ErrVolunteerNotFound  = errors.New("volunteer not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
	errUniqueSlotViolated = errors.New("slot guard violated")
)

type mentorProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error)
	ListAccepting(ctx context.Context) ([]models.MentorProfile, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type BookingService struct {
	db            *pgxpool.Pool
	bookingRepo   *repository.BookingRepository
	mentorRepo    mentorProfileReader
	userRepo      userReader
	notifier      notify.Notifier
	logger        *zap.Logger
	groupCapacity int
}

func NewBookingService(
	db *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	mentorRepo mentorProfileReader,
	userRepo userReader,
	notifier notify.Notifier,
	logger *zap.Logger,
	groupCapacity int,
) *BookingService {
	return &BookingService{
		db:            db,
		bookingRepo:   bookingRepo,
		mentorRepo:    mentorRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		logger:        logger,
		groupCapacity: groupCapacity,
	}
}

type CreateBookingInput struct {
	MentorID     int64
	SessionDate  string
	TimeSlot     string
	SessionType  string
	Notes        *string
	StudentName  string
	StudentEmail string
	StudentPhone *string
}

func (s *BookingService) CreateBooking(
	ctx context.Context,
	studentID int64,
	input CreateBookingInput,
) (*models.Booking, error) {
	if err := validateCreateBookingInput(input, time.Now().UTC()); err != nil {
		return nil, err
	}

	mentor, err := s.userRepo.GetByID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, storeFailure(err)
	}
	if mentor.Role != models.RoleAdmin {
		return nil, ErrInvalidInput
	}

	profile, err := s.mentorRepo.GetByUserID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, storeFailure(err)
	}
	if !profile.AcceptingBookings {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBookingRepo := repository.NewBookingRepository(tx)

	// Serialize competing writers for this triple; the partial unique
	// index is the backstop if the lock is ever bypassed.
	if err := txBookingRepo.LockSlot(ctx, input.MentorID, input.SessionDate, input.TimeSlot); err != nil {
		return nil, storeFailure(err)
	}

	held, err := txBookingRepo.ListActiveForSlot(ctx, input.MentorID, input.SessionDate, input.TimeSlot)
	if err != nil {
		return nil, storeFailure(err)
	}
	if conflict := findSlotConflict(input.SessionType, held, s.groupCapacity); conflict != nil {
		return nil, fmt.Errorf("%w: conflicts with booking %s", ErrSlotTaken, conflict.Reference)
	}

	studentBusy, err := txBookingRepo.StudentHasActiveInSlot(ctx, studentID, input.SessionDate, input.TimeSlot)
	if err != nil {
		return nil, storeFailure(err)
	}
	if studentBusy {
		return nil, fmt.Errorf("%w: student already booked in this slot", ErrSlotTaken)
	}

	booking, err := txBookingRepo.Create(ctx, repository.CreateBookingInput{
		Reference:    uuid.NewString(),
		StudentID:    studentID,
		MentorID:     input.MentorID,
		SessionDate:  input.SessionDate,
		TimeSlot:     input.TimeSlot,
		SessionType:  input.SessionType,
		Notes:        input.Notes,
		StudentName:  strings.TrimSpace(input.StudentName),
		StudentEmail: strings.TrimSpace(input.StudentEmail),
		StudentPhone: input.StudentPhone,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %v", ErrSlotTaken, errUniqueSlotViolated)
		}
		return nil, storeFailure(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeFailure(err)
	}

	s.publishEvent(ctx, notify.KeyBookingCreated, booking)
	return booking, nil
}

// Availability enumerates open slots for the date. Only confirmed
// bookings consume availability; a pending booking leaves the slot
// visible until the mentor confirms it.
func (s *BookingService) Availability(
	ctx context.Context,
	sessionDate string,
	sessionType string,
	mentorID int64,
) ([]models.SlotAvailability, error) {
	if _, err := time.Parse("2006-01-02", sessionDate); err != nil {
		return nil, ErrInvalidInput
	}
	if !models.IsValidSessionType(sessionType) {
		return nil, ErrInvalidInput
	}

	var mentorIDs []int64
	if mentorID > 0 {
		if _, err := s.mentorRepo.GetByUserID(ctx, mentorID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrMentorNotFound
			}
			return nil, storeFailure(err)
		}
		mentorIDs = []int64{mentorID}
	} else {
		profiles, err := s.mentorRepo.ListAccepting(ctx)
		if err != nil {
			return nil, storeFailure(err)
		}
		for _, profile := range profiles {
			mentorIDs = append(mentorIDs, profile.UserID)
		}
	}

	confirmed, err := s.bookingRepo.ListConfirmedForDate(ctx, sessionDate, mentorID)
	if err != nil {
		return nil, storeFailure(err)
	}

	return buildAvailability(mentorIDs, sessionDate, sessionType, confirmed, s.groupCapacity), nil
}

func (s *BookingService) GetBooking(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, storeFailure(err)
	}
	if !canAccessBooking(role, actorID, booking) {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListBookings(
	ctx context.Context,
	actorID int64,
	role string,
	filter repository.BookingListFilter,
) ([]models.Booking, error) {
	if role != models.RoleStudent && role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			return nil, ErrInvalidInput
		}
	}

	bookings, err := s.bookingRepo.List(ctx, repository.BookingListFilter{
		ActorID: actorID,
		Role:    role,
		Status:  filter.Status,
		Date:    filter.Date,
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return bookings, nil
}

// UpdateStatus walks the booking state machine:
//
//	pending --confirm--> confirmed --complete--> completed
//	pending --reject-->  rejected
//
// Confirm re-validates the slot invariant under the slot lock so a racing
// confirm can never produce two confirmed individual bookings on one
// triple.
func (s *BookingService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
	requestedStatus string,
	mentorNotes *string,
) (*models.Booking, error) {
	if role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, storeFailure(err)
	}

	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateStatusTransition(booking.Status, nextStatus); err != nil {
		return nil, err
	}
	if nextStatus == models.BookingStatusCompleted {
		// Reviewer notes are captured on confirm/reject only.
		mentorNotes = nil
	}

	var updated *models.Booking
	if nextStatus == models.BookingStatusConfirmed {
		updated, err = s.confirmBooking(ctx, booking, mentorNotes)
	} else {
		updated, err = s.bookingRepo.UpdateStatusIfCurrent(ctx, bookingID, booking.Status, nextStatus, mentorNotes)
		if err != nil && errors.Is(err, pgx.ErrNoRows) {
			err = ErrInvalidTransition
		} else if err != nil {
			err = storeFailure(err)
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, transitionEventKey(nextStatus), updated)
	return updated, nil
}

func (s *BookingService) confirmBooking(
	ctx context.Context,
	booking *models.Booking,
	mentorNotes *string,
) (*models.Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBookingRepo := repository.NewBookingRepository(tx)

	if err := txBookingRepo.LockSlot(ctx, booking.MentorID, booking.SessionDate, booking.TimeSlot); err != nil {
		return nil, storeFailure(err)
	}

	individualHeld, err := txBookingRepo.HasConfirmedIndividualInSlot(
		ctx,
		booking.MentorID,
		booking.SessionDate,
		booking.TimeSlot,
		booking.ID,
	)
	if err != nil {
		return nil, storeFailure(err)
	}
	if individualHeld {
		return nil, fmt.Errorf("%w: slot already confirmed for an individual session", ErrSlotTaken)
	}

	groupCount, err := txBookingRepo.CountConfirmedGroupInSlot(
		ctx,
		booking.MentorID,
		booking.SessionDate,
		booking.TimeSlot,
	)
	if err != nil {
		return nil, storeFailure(err)
	}
	if booking.SessionType == models.SessionTypeIndividual && groupCount > 0 {
		return nil, fmt.Errorf("%w: slot holds confirmed group sessions", ErrSlotTaken)
	}
	if booking.SessionType == models.SessionTypeGroup && groupCount >= s.groupCapacity {
		return nil, fmt.Errorf("%w: group session is full", ErrSlotTaken)
	}

	updated, err := txBookingRepo.UpdateStatusIfCurrent(
		ctx,
		booking.ID,
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		mentorNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, storeFailure(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeFailure(err)
	}
	return updated, nil
}

func (s *BookingService) publishEvent(ctx context.Context, key string, booking *models.Booking) {
	if key == "" || booking == nil {
		return
	}
	err := s.notifier.PublishBookingEvent(ctx, key, notify.BookingEvent{
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		StudentID:    booking.StudentID,
		MentorID:     booking.MentorID,
		SessionDate:  booking.SessionDate,
		TimeSlot:     booking.TimeSlot,
		SessionType:  booking.SessionType,
		Status:       booking.Status,
		StudentEmail: booking.StudentInfo.Email,
	})
	if err != nil {
		s.logger.Warn("publish booking event",
			zap.String("key", key),
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

func validateCreateBookingInput(input CreateBookingInput, now time.Time) error {
	if input.MentorID <= 0 {
		return ErrInvalidInput
	}
	date, err := time.Parse("2006-01-02", input.SessionDate)
	if err != nil {
		return ErrInvalidInput
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return ErrInvalidInput
	}
	if !models.IsValidTimeSlot(input.TimeSlot) {
		return ErrInvalidInput
	}
	if !models.IsValidSessionType(input.SessionType) {
		return ErrInvalidInput
	}
	if strings.TrimSpace(input.StudentName) == "" || strings.TrimSpace(input.StudentEmail) == "" {
		return ErrInvalidInput
	}
	return nil
}

// findSlotConflict applies the write-side conflict rules against the
// active (pending or confirmed) bookings holding a triple.
func findSlotConflict(
	requestedType string,
	held []models.Booking,
	groupCapacity int,
) *models.Booking {
	groupCount := 0
	for i := range held {
		if held[i].SessionType == models.SessionTypeIndividual {
			// An individual hold blocks everything else in the slot.
			return &held[i]
		}
		groupCount++
	}

	if requestedType == models.SessionTypeIndividual && len(held) > 0 {
		return &held[0]
	}
	if requestedType == models.SessionTypeGroup && groupCount >= groupCapacity {
		return &held[0]
	}
	return nil
}

func buildAvailability(
	mentorIDs []int64,
	sessionDate string,
	sessionType string,
	confirmed []models.Booking,
	groupCapacity int,
) []models.SlotAvailability {
	type slotKey struct {
		mentorID int64
		timeSlot string
	}

	individualTaken := make(map[slotKey]bool)
	groupCounts := make(map[slotKey]int)
	for _, booking := range confirmed {
		key := slotKey{mentorID: booking.MentorID, timeSlot: booking.TimeSlot}
		if booking.SessionType == models.SessionTypeIndividual {
			individualTaken[key] = true
		} else {
			groupCounts[key]++
		}
	}

	available := make([]models.SlotAvailability, 0, len(mentorIDs)*len(models.TimeSlots))
	for _, mentorID := range mentorIDs {
		for _, timeSlot := range models.TimeSlots {
			key := slotKey{mentorID: mentorID, timeSlot: timeSlot}
			if individualTaken[key] {
				continue
			}

			groupCount := groupCounts[key]
			if sessionType == models.SessionTypeIndividual {
				if groupCount > 0 {
					continue
				}
				available = append(available, models.SlotAvailability{
					MentorID:    mentorID,
					SessionDate: sessionDate,
					TimeSlot:    timeSlot,
					SessionType: sessionType,
					OpenSpots:   1,
				})
				continue
			}

			if groupCount >= groupCapacity {
				continue
			}
			available = append(available, models.SlotAvailability{
				MentorID:    mentorID,
				SessionDate: sessionDate,
				TimeSlot:    timeSlot,
				SessionType: sessionType,
				OpenSpots:   groupCapacity - groupCount,
			})
		}
	}
	return available
}

func canAccessBooking(role string, actorID int64, booking *models.Booking) bool {
	switch role {
	case models.RoleStudent:
		return booking.StudentID == actorID
	case models.RoleAdmin:
		// Admins may act as a proxy for any mentor.
		return true
	default:
		return false
	}
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "confirm", "confirmed":
		return models.BookingStatusConfirmed, nil
	case "reject", "rejected":
		return models.BookingStatusRejected, nil
	case "complete", "completed":
		return models.BookingStatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

func validateStatusTransition(currentStatus, nextStatus string) error {
	switch currentStatus {
	case models.BookingStatusPending:
		if nextStatus == models.BookingStatusConfirmed || nextStatus == models.BookingStatusRejected {
			return nil
		}
	case models.BookingStatusConfirmed:
		if nextStatus == models.BookingStatusCompleted {
			return nil
		}
	}
	return ErrInvalidTransition
}

func transitionEventKey(status string) string {
	switch status {
	case models.BookingStatusConfirmed:
		return notify.KeyBookingConfirmed
	case models.BookingStatusRejected:
		return notify.KeyBookingRejected
	case models.BookingStatusCompleted:
		return notify.KeyBookingCompleted
	default:
		return ""
	}
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
