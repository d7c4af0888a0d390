package models

import "time"

// Assessment stores a submitted self-assessment result. Scores arrive
// already computed by the instrument; the backend only records history.
type Assessment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Instrument string    `json:"instrument"`
	Score      int       `json:"score"`
	Severity   string    `json:"severity"`
	CreatedAt  time.Time `json:"created_at"`
}
