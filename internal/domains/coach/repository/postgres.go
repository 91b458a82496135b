package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/coach/model"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const coachColumns = `id, name, role, bio, email, image_url, image_path, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) crud.Repository[model.Coach, model.Draft, model.Patch] {
	return &postgresRepository{pool: pool}
}

func scanCoach(row pgx.Row) (model.Coach, error) {
	var c model.Coach
	err := row.Scan(&c.ID, &c.Name, &c.Role, &c.Bio, &c.Email, &c.ImageURL, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Coach, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+coachColumns+` FROM coaches ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query coaches: %w", err)
	}
	defer rows.Close()

	coaches := []model.Coach{}
	for rows.Next() {
		c, err := scanCoach(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coaches: %w", err)
	}
	return coaches, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Coach, error) {
	c, err := scanCoach(r.pool.QueryRow(ctx, `SELECT `+coachColumns+` FROM coaches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Coach{}, crud.ErrNotFound
		}
		return model.Coach{}, fmt.Errorf("failed to get coach by id: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) Create(ctx context.Context, d model.Draft) (model.Coach, error) {
	query := `
        INSERT INTO coaches (name, role, bio, email, image_url, image_path)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + coachColumns

	c, err := scanCoach(r.pool.QueryRow(ctx, query, d.Name, d.Role, d.Bio, d.Email, d.ImageURL, d.ImagePath))
	if err != nil {
		return model.Coach{}, fmt.Errorf("failed to create coach: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) Update(ctx context.Context, p model.Patch) (model.Coach, error) {
	query := `
        UPDATE coaches
        SET
            name       = COALESCE($2, name),
            role       = NULLIF(COALESCE($3, role), ''),
            bio        = NULLIF(COALESCE($4, bio), ''),
            email      = NULLIF(COALESCE($5, email), ''),
            image_url  = COALESCE($6, image_url),
            image_path = COALESCE($7, image_path),
            updated_at = now()
        WHERE id = $1
        RETURNING ` + coachColumns

	c, err := scanCoach(r.pool.QueryRow(ctx, query, p.ID, p.Name, p.Role, p.Bio, p.Email, p.ImageURL, p.ImagePath))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Coach{}, crud.ErrNotFound
		}
		return model.Coach{}, fmt.Errorf("failed to update coach: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coach: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}
