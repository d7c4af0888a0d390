package models

import "time"

const (
	SessionTypeIndividual = "individual"
	SessionTypeGroup      = "group"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
)

// TimeSlots is the fixed catalog of bookable windows, in display order.
var TimeSlots = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func IsValidSessionType(sessionType string) bool {
	return sessionType == SessionTypeIndividual || sessionType == SessionTypeGroup
}

type Booking struct {
	ID          int64       `json:"id"`
	Reference   string      `json:"reference"`
	StudentID   int64       `json:"student_id"`
	MentorID    int64       `json:"mentor_id"`
	SessionDate string      `json:"session_date"`
	TimeSlot    string      `json:"time_slot"`
	SessionType string      `json:"session_type"`
	Status      string      `json:"status"`
	Notes       *string     `json:"notes"`
	MentorNotes *string     `json:"mentor_notes"`
	StudentInfo StudentInfo `json:"student_info"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// StudentInfo is the contact snapshot captured when the booking is made.
// It is intentionally denormalized so mentors keep the details the student
// submitted even if the account changes later.
type StudentInfo struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// SlotAvailability describes one open window for one mentor.
type SlotAvailability struct {
	MentorID    int64  `json:"mentor_id"`
	SessionDate string `json:"session_date"`
	TimeSlot    string `json:"time_slot"`
	SessionType string `json:"session_type"`
	OpenSpots   int    `json:"open_spots"`
}
