package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
)

type ResourceInput struct {
	Title       string
	Category    string
	Description *string
	URL         *string
	IsCrisis    bool
}

type ResourceRepository struct {
	db DBTX
}

func NewResourceRepository(db DBTX) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, input ResourceInput) (*models.Resource, error) {
	query := `
		INSERT INTO resources (title, category, description, url, is_crisis)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, category, description, url, is_crisis, created_at, updated_at
	`
	var resource models.Resource
	err := r.db.QueryRow(ctx, query,
		input.Title,
		input.Category,
		input.Description,
		input.URL,
		input.IsCrisis,
	).Scan(
		&resource.ID,
		&resource.Title,
		&resource.Category,
		&resource.Description,
		&resource.URL,
		&resource.IsCrisis,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *ResourceRepository) Update(
	ctx context.Context,
	resourceID int64,
	input ResourceInput,
) (*models.Resource, error) {
	query := `
		UPDATE resources
		SET title = $2,
			category = $3,
			description = $4,
			url = $5,
			is_crisis = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, category, description, url, is_crisis, created_at, updated_at
	`
	var resource models.Resource
	err := r.db.QueryRow(ctx, query,
		resourceID,
		input.Title,
		input.Category,
		input.Description,
		input.URL,
		input.IsCrisis,
	).Scan(
		&resource.ID,
		&resource.Title,
		&resource.Category,
		&resource.Description,
		&resource.URL,
		&resource.IsCrisis,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, resourceID int64) (*models.Resource, error) {
	query := `
		SELECT id, title, category, description, url, is_crisis, created_at, updated_at
		FROM resources
		WHERE id = $1
	`
	var resource models.Resource
	err := r.db.QueryRow(ctx, query, resourceID).Scan(
		&resource.ID,
		&resource.Title,
		&resource.Category,
		&resource.Description,
		&resource.URL,
		&resource.IsCrisis,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *ResourceRepository) List(ctx context.Context, category string, crisisOnly bool) ([]models.Resource, error) {
	args := []any{}
	whereParts := []string{}

	if category = strings.TrimSpace(category); category != "" {
		args = append(args, category)
		whereParts = append(whereParts, fmt.Sprintf("category = $%d", len(args)))
	}
	if crisisOnly {
		whereParts = append(whereParts, "is_crisis = TRUE")
	}

	where := ""
	if len(whereParts) > 0 {
		where = "WHERE " + strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, title, category, description, url, is_crisis, created_at, updated_at
		FROM resources
		%s
		ORDER BY is_crisis DESC, category ASC, title ASC, id ASC
	`, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]models.Resource, 0)
	for rows.Next() {
		var resource models.Resource
		if err := rows.Scan(
			&resource.ID,
			&resource.Title,
			&resource.Category,
			&resource.Description,
			&resource.URL,
			&resource.IsCrisis,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		); err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resources, nil
}
