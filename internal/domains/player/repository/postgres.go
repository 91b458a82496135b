package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/player/model"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// date_of_birth travels as YYYY-MM-DD text
const playerColumns = `id, name, position, jersey_number, nationality,
    to_char(date_of_birth, 'YYYY-MM-DD'), bio, image_url, image_path, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) crud.Repository[model.Player, model.Draft, model.Patch] {
	return &postgresRepository{pool: pool}
}

func scanPlayer(row pgx.Row) (model.Player, error) {
	var p model.Player
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Position,
		&p.JerseyNumber,
		&p.Nationality,
		&p.DateOfBirth,
		&p.Bio,
		&p.ImageURL,
		&p.ImagePath,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Player, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+playerColumns+` FROM team_players ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Player, error) {
	p, err := scanPlayer(r.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM team_players WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, crud.ErrNotFound
		}
		return model.Player{}, fmt.Errorf("failed to get player by id: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Create(ctx context.Context, d model.Draft) (model.Player, error) {
	query := `
        INSERT INTO team_players (name, position, jersey_number, nationality, date_of_birth, bio, image_url, image_path)
        VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)
        RETURNING ` + playerColumns

	p, err := scanPlayer(r.pool.QueryRow(ctx, query,
		d.Name,
		d.Position,
		d.JerseyNumber,
		d.Nationality,
		d.DateOfBirth,
		d.Bio,
		d.ImageURL,
		d.ImagePath,
	))
	if err != nil {
		return model.Player{}, fmt.Errorf("failed to create player: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Update(ctx context.Context, p model.Patch) (model.Player, error) {
	query := `
        UPDATE team_players
        SET
            name          = COALESCE($2, name),
            position      = NULLIF(COALESCE($3, position), ''),
            jersey_number = COALESCE($4, jersey_number),
            nationality   = NULLIF(COALESCE($5, nationality), ''),
            date_of_birth = CASE WHEN $6::text IS NULL THEN date_of_birth ELSE NULLIF($6::text, '')::date END,
            bio           = NULLIF(COALESCE($7, bio), ''),
            image_url     = COALESCE($8, image_url),
            image_path    = COALESCE($9, image_path),
            updated_at    = now()
        WHERE id = $1
        RETURNING ` + playerColumns

	updated, err := scanPlayer(r.pool.QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Position,
		p.JerseyNumber,
		p.Nationality,
		p.DateOfBirth,
		p.Bio,
		p.ImageURL,
		p.ImagePath,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, crud.ErrNotFound
		}
		return model.Player{}, fmt.Errorf("failed to update player: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM team_players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}
