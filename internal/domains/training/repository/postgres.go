package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/training/model"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `id, title, group_name, day_of_week, start_time, end_time, location, notes, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) crud.Repository[model.Session, model.Draft, model.Patch] {
	return &postgresRepository{pool: pool}
}

func scanSession(row pgx.Row) (model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.Title, &s.GroupName, &s.DayOfWeek, &s.StartTime, &s.EndTime,
		&s.Location, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM training_sessions ORDER BY day_of_week ASC, start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query training sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, crud.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get training session: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Create(ctx context.Context, d model.Draft) (model.Session, error) {
	query := `
        INSERT INTO training_sessions (title, group_name, day_of_week, start_time, end_time, location, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + sessionColumns

	s, err := scanSession(r.pool.QueryRow(ctx, query,
		d.Title, d.GroupName, d.DayOfWeek, d.StartTime, d.EndTime, d.Location, d.Notes))
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create training session: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Update(ctx context.Context, p model.Patch) (model.Session, error) {
	query := `
        UPDATE training_sessions
        SET
            title       = COALESCE($2, title),
            group_name  = NULLIF(COALESCE($3, group_name), ''),
            day_of_week = COALESCE($4, day_of_week),
            start_time  = COALESCE($5, start_time),
            end_time    = NULLIF(COALESCE($6, end_time), ''),
            location    = NULLIF(COALESCE($7, location), ''),
            notes       = NULLIF(COALESCE($8, notes), ''),
            updated_at  = now()
        WHERE id = $1
        RETURNING ` + sessionColumns

	s, err := scanSession(r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.GroupName, p.DayOfWeek, p.StartTime, p.EndTime, p.Location, p.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, crud.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to update training session: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM training_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete training session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}
