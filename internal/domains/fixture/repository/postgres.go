package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/fixture/model"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fixtureColumns = `id, opponent, match_date, venue, competition, is_home, home_score, away_score,
    status, opponent_logo_url, opponent_logo_path, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) crud.Repository[model.Fixture, model.Draft, model.Patch] {
	return &postgresRepository{pool: pool}
}

func scanFixture(row pgx.Row) (model.Fixture, error) {
	var f model.Fixture
	err := row.Scan(
		&f.ID,
		&f.Opponent,
		&f.MatchDate,
		&f.Venue,
		&f.Competition,
		&f.IsHome,
		&f.HomeScore,
		&f.AwayScore,
		&f.Status,
		&f.OpponentLogoURL,
		&f.OpponentLogoPath,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

// List returns fixtures in kick-off order.
func (r *postgresRepository) List(ctx context.Context) ([]model.Fixture, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fixtureColumns+` FROM fixtures ORDER BY match_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures: %w", err)
	}
	defer rows.Close()

	fixtures := []model.Fixture{}
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixtures: %w", err)
	}
	return fixtures, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Fixture, error) {
	f, err := scanFixture(r.pool.QueryRow(ctx, `SELECT `+fixtureColumns+` FROM fixtures WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Fixture{}, crud.ErrNotFound
		}
		return model.Fixture{}, fmt.Errorf("failed to get fixture by id: %w", err)
	}
	return f, nil
}

func (r *postgresRepository) Create(ctx context.Context, d model.Draft) (model.Fixture, error) {
	query := `
        INSERT INTO fixtures (opponent, match_date, venue, competition, is_home, home_score, away_score,
                              status, opponent_logo_url, opponent_logo_path)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + fixtureColumns

	f, err := scanFixture(r.pool.QueryRow(ctx, query,
		d.Opponent,
		d.MatchDate,
		d.Venue,
		d.Competition,
		d.IsHome,
		d.HomeScore,
		d.AwayScore,
		d.Status,
		d.OpponentLogoURL,
		d.OpponentLogoPath,
	))
	if err != nil {
		return model.Fixture{}, fmt.Errorf("failed to create fixture: %w", err)
	}
	return f, nil
}

func (r *postgresRepository) Update(ctx context.Context, p model.Patch) (model.Fixture, error) {
	query := `
        UPDATE fixtures
        SET
            opponent           = COALESCE($2, opponent),
            match_date         = COALESCE($3, match_date),
            venue              = NULLIF(COALESCE($4, venue), ''),
            competition        = NULLIF(COALESCE($5, competition), ''),
            is_home            = COALESCE($6, is_home),
            home_score         = COALESCE($7, home_score),
            away_score         = COALESCE($8, away_score),
            status             = COALESCE($9, status),
            opponent_logo_url  = COALESCE($10, opponent_logo_url),
            opponent_logo_path = COALESCE($11, opponent_logo_path),
            updated_at         = now()
        WHERE id = $1
        RETURNING ` + fixtureColumns

	f, err := scanFixture(r.pool.QueryRow(ctx, query,
		p.ID,
		p.Opponent,
		p.MatchDate,
		p.Venue,
		p.Competition,
		p.IsHome,
		p.HomeScore,
		p.AwayScore,
		p.Status,
		p.OpponentLogoURL,
		p.OpponentLogoPath,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Fixture{}, crud.ErrNotFound
		}
		return model.Fixture{}, fmt.Errorf("failed to update fixture: %w", err)
	}
	return f, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fixtures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fixture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}
