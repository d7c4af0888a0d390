package models

import "time"

const (
	RoleStudent   = "student"
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
)

// User mirrors an account issued by the external identity provider.
// No credentials are stored here; tokens are validated against the
// provider's signing secret.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
