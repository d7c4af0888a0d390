package repository

import (
	"context"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
)

type CreateAssessmentInput struct {
	UserID     int64
	Instrument string
	Score      int
	Severity   string
}

type AssessmentRepository struct {
	db DBTX
}

func NewAssessmentRepository(db DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(
	ctx context.Context,
	input CreateAssessmentInput,
) (*models.Assessment, error) {
	query := `
		INSERT INTO assessments (user_id, instrument, score, severity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, instrument, score, severity, created_at
	`
	var assessment models.Assessment
	err := r.db.QueryRow(ctx, query,
		input.UserID,
		input.Instrument,
		input.Score,
		input.Severity,
	).Scan(
		&assessment.ID,
		&assessment.UserID,
		&assessment.Instrument,
		&assessment.Score,
		&assessment.Severity,
		&assessment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepository) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
) ([]models.Assessment, error) {
	query := `
		SELECT id, user_id, instrument, score, severity, created_at
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]models.Assessment, 0)
	for rows.Next() {
		var assessment models.Assessment
		if err := rows.Scan(
			&assessment.ID,
			&assessment.UserID,
			&assessment.Instrument,
			&assessment.Score,
			&assessment.Severity,
			&assessment.CreatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assessments, nil
}
