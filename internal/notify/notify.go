package notify

import "context"

// Routing keys for booking lifecycle events. A notification service
// consumes these to dispatch email; delivery itself lives outside this
// codebase.
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingConfirmed = "booking.confirmed"
	KeyBookingRejected  = "booking.rejected"
	KeyBookingCompleted = "booking.completed"
)

type BookingEvent struct {
	BookingID    int64  `json:"booking_id"`
	Reference    string `json:"reference"`
	StudentID    int64  `json:"student_id"`
	MentorID     int64  `json:"mentor_id"`
	SessionDate  string `json:"session_date"`
	TimeSlot     string `json:"time_slot"`
	SessionType  string `json:"session_type"`
	Status       string `json:"status"`
	StudentEmail string `json:"student_email"`
}

type Notifier interface {
	PublishBookingEvent(ctx context.Context, key string, event BookingEvent) error
	Close() error
}

// NopNotifier is used when no broker is configured; booking flows must
// not depend on a running AMQP instance.
type NopNotifier struct{}

func (NopNotifier) PublishBookingEvent(context.Context, string, BookingEvent) error { return nil }

func (NopNotifier) Close() error { return nil }
