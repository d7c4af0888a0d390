package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `
	id, reference, student_id, mentor_id, session_date::text, time_slot,
	session_type, status, notes, mentor_notes,
	student_name, student_email, student_phone,
	created_at, updated_at
`

type CreateBookingInput struct {
	Reference    string
	StudentID    int64
	MentorID     int64
	SessionDate  string
	TimeSlot     string
	SessionType  string
	Notes        *string
	StudentName  string
	StudentEmail string
	StudentPhone *string
}

type BookingListFilter struct {
	ActorID int64
	Role    string
	Status  string
	Date    string
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.StudentID,
		&booking.MentorID,
		&booking.SessionDate,
		&booking.TimeSlot,
		&booking.SessionType,
		&booking.Status,
		&booking.Notes,
		&booking.MentorNotes,
		&booking.StudentInfo.Name,
		&booking.StudentInfo.Email,
		&booking.StudentInfo.Phone,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) Create(
	ctx context.Context,
	input CreateBookingInput,
) (*models.Booking, error) {
	query := fmt.Sprintf(`
		INSERT INTO bookings (
			reference, student_id, mentor_id, session_date, time_slot,
			session_type, status, notes, student_name, student_email, student_phone
		)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8, $9, $10)
		RETURNING %s
	`, bookingColumns)

	return scanBooking(r.db.QueryRow(
		ctx,
		query,
		input.Reference,
		input.StudentID,
		input.MentorID,
		input.SessionDate,
		input.TimeSlot,
		input.SessionType,
		input.Notes,
		input.StudentName,
		input.StudentEmail,
		input.StudentPhone,
	))
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE id = $1
	`, bookingColumns)

	return scanBooking(r.db.QueryRow(ctx, query, bookingID))
}

func (r *BookingRepository) List(
	ctx context.Context,
	filter BookingListFilter,
) ([]models.Booking, error) {
	args := []any{}
	whereParts := []string{}

	// Students only ever see their own bookings; admins see every
	// mentor's queue.
	if filter.Role == models.RoleStudent {
		args = append(args, filter.ActorID)
		whereParts = append(whereParts, fmt.Sprintf("student_id = $%d", len(args)))
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if date := strings.TrimSpace(filter.Date); date != "" {
		args = append(args, date)
		whereParts = append(whereParts, fmt.Sprintf("session_date = $%d", len(args)))
	}

	where := ""
	if len(whereParts) > 0 {
		where = "WHERE " + strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		%s
		ORDER BY session_date ASC, time_slot ASC, id ASC
	`, bookingColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListActiveForSlot returns the pending and confirmed bookings holding
// a (mentor, date, slot) triple. Callers must hold the slot lock when
// using the result to decide a write.
func (r *BookingRepository) ListActiveForSlot(
	ctx context.Context,
	mentorID int64,
	sessionDate string,
	timeSlot string,
) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE mentor_id = $1
		  AND session_date = $2
		  AND time_slot = $3
		  AND status IN ('pending', 'confirmed')
		ORDER BY id ASC
	`, bookingColumns)

	rows, err := r.db.Query(ctx, query, mentorID, sessionDate, timeSlot)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListConfirmedForDate feeds the availability view: only confirmed
// bookings consume slots. Pass mentorID 0 to cover every mentor.
func (r *BookingRepository) ListConfirmedForDate(
	ctx context.Context,
	sessionDate string,
	mentorID int64,
) ([]models.Booking, error) {
	args := []any{sessionDate}
	mentorClause := ""
	if mentorID > 0 {
		args = append(args, mentorID)
		mentorClause = "AND mentor_id = $2"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE session_date = $1
		  AND status = 'confirmed'
		  %s
		ORDER BY id ASC
	`, bookingColumns, mentorClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *BookingRepository) StudentHasActiveInSlot(
	ctx context.Context,
	studentID int64,
	sessionDate string,
	timeSlot string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE student_id = $1
			  AND session_date = $2
			  AND time_slot = $3
			  AND status IN ('pending', 'confirmed')
		)
	`
	var busy bool
	if err := r.db.QueryRow(ctx, query, studentID, sessionDate, timeSlot).Scan(&busy); err != nil {
		return false, err
	}
	return busy, nil
}

func (r *BookingRepository) HasConfirmedIndividualInSlot(
	ctx context.Context,
	mentorID int64,
	sessionDate string,
	timeSlot string,
	excludedBookingID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE mentor_id = $1
			  AND session_date = $2
			  AND time_slot = $3
			  AND id <> $4
			  AND session_type = 'individual'
			  AND status = 'confirmed'
		)
	`
	var held bool
	if err := r.db.QueryRow(ctx, query, mentorID, sessionDate, timeSlot, excludedBookingID).Scan(&held); err != nil {
		return false, err
	}
	return held, nil
}

func (r *BookingRepository) CountConfirmedGroupInSlot(
	ctx context.Context,
	mentorID int64,
	sessionDate string,
	timeSlot string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE mentor_id = $1
		  AND session_date = $2
		  AND time_slot = $3
		  AND session_type = 'group'
		  AND status = 'confirmed'
	`
	var count int
	if err := r.db.QueryRow(ctx, query, mentorID, sessionDate, timeSlot).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	currentStatus string,
	nextStatus string,
	mentorNotes *string,
) (*models.Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $3,
		    mentor_notes = COALESCE($4, mentor_notes),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, bookingColumns)

	return scanBooking(r.db.QueryRow(ctx, query, bookingID, currentStatus, nextStatus, mentorNotes))
}

// LockSlot serializes writers for one (mentor, date, slot) triple for
// the lifetime of the surrounding transaction.
func (r *BookingRepository) LockSlot(
	ctx context.Context,
	mentorID int64,
	sessionDate string,
	timeSlot string,
) error {
	key := fmt.Sprintf("booking:%d:%s:%s", mentorID, sessionDate, timeSlot)
	_, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key)
	return err
}
