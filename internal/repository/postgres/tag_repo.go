package postgres

import (
	"context"
	"errors"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepository implements domain.TagRepository using PostgreSQL
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

const tagColumns = `id, name, color, created_at`

// List retrieves all tags ordered by name
func (r *TagRepository) List() ([]*domain.Tag, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// GetByID retrieves a tag by ID
func (r *TagRepository) GetByID(id uuid.UUID) (*domain.Tag, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// GetByName retrieves a tag by its exact name
func (r *TagRepository) GetByName(name string) (*domain.Tag, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE name = $1`, name)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// Create inserts a new tag; a duplicate name maps to domain.ErrTagNameExists
func (r *TagRepository) Create(tag *domain.Tag) (*domain.Tag, error) {
	ctx := context.Background()

	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO tags (id, name, color)
		VALUES ($1, $2, $3)
		RETURNING `+tagColumns,
		tag.ID, tag.Name, tag.Color,
	)

	created, err := scanTag(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrTagNameExists
		}
		return nil, err
	}
	return created, nil
}

// Delete removes a tag; bill associations go with it via FK cascade
func (r *TagRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

// scanTag scans a tag row into a domain model
func scanTag(row pgx.Row) (*domain.Tag, error) {
	var tag domain.Tag
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
		return nil, err
	}
	return &tag, nil
}

// isPgUniqueViolation checks if an error is a PostgreSQL unique constraint violation
func isPgUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	// PostgreSQL unique violation error code is 23505
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
