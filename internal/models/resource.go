package models

import "time"

type Resource struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	IsCrisis    bool      `json:"is_crisis"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
