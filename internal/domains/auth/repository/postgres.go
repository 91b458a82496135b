package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/auth/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at FROM admins WHERE lower(email) = lower($1)`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, model.ErrAdminNotFound
		}
		return model.Admin{}, fmt.Errorf("failed to find admin: %w", err)
	}
	return a, nil
}

// Upsert creates the admin or resets its password hash.
func (r *PostgresRepository) Upsert(ctx context.Context, email, passwordHash, role string) (model.Admin, error) {
	query := `
        INSERT INTO admins (email, password_hash, role)
        VALUES (lower($1), $2, $3)
        ON CONFLICT (email) DO UPDATE
        SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, updated_at = now()
        RETURNING id, email, password_hash, role, created_at`

	var a model.Admin
	err := r.pool.QueryRow(ctx, query, email, passwordHash, role).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return model.Admin{}, fmt.Errorf("failed to upsert admin: %w", err)
	}
	return a, nil
}
