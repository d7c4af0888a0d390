package models

import "time"

type MentorProfile struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	FullName          *string   `json:"full_name"`
	Title             *string   `json:"title"`
	Bio               *string   `json:"bio"`
	Specializations   *[]string `json:"specializations"`
	AcceptingBookings bool      `json:"accepting_bookings"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
