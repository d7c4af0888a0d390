package repository

import (
	"context"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
)

type MentorProfileInput struct {
	FullName          string
	Title             string
	Bio               string
	Specializations   []string
	AcceptingBookings bool
}

type MentorRepository struct {
	db DBTX
}

func NewMentorRepository(db DBTX) *MentorRepository {
	return &MentorRepository{db: db}
}

func (r *MentorRepository) GetByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error) {
	query := `
		SELECT id, user_id, full_name, title, bio, specializations,
			   accepting_bookings, created_at, updated_at
		FROM mentor_profiles
		WHERE user_id = $1
	`
	var profile models.MentorProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Title,
		&profile.Bio,
		&profile.Specializations,
		&profile.AcceptingBookings,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *MentorRepository) ListAccepting(ctx context.Context) ([]models.MentorProfile, error) {
	query := `
		SELECT id, user_id, full_name, title, bio, specializations,
			   accepting_bookings, created_at, updated_at
		FROM mentor_profiles
		WHERE accepting_bookings = TRUE
		ORDER BY full_name ASC NULLS LAST, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.MentorProfile, 0)
	for rows.Next() {
		var profile models.MentorProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.Title,
			&profile.Bio,
			&profile.Specializations,
			&profile.AcceptingBookings,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *MentorRepository) Upsert(
	ctx context.Context,
	userID int64,
	input MentorProfileInput,
) (*models.MentorProfile, error) {
	query := `
		INSERT INTO mentor_profiles (user_id, full_name, title, bio, specializations, accepting_bookings)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET full_name = $2,
			title = $3,
			bio = $4,
			specializations = $5,
			accepting_bookings = $6,
			updated_at = NOW()
		RETURNING id, user_id, full_name, title, bio, specializations,
				  accepting_bookings, created_at, updated_at
	`
	var profile models.MentorProfile
	err := r.db.QueryRow(ctx, query,
		userID,
		input.FullName,
		input.Title,
		input.Bio,
		input.Specializations,
		input.AcceptingBookings,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Title,
		&profile.Bio,
		&profile.Specializations,
		&profile.AcceptingBookings,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
