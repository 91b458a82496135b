package repository

import (
	"context"
	"fmt"

	"clubsite-backend/internal/domains/contact/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, req model.Request) (model.Contact, error) {
	query := `
        INSERT INTO contacts (name, email, phone, subject, message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, name, email, phone, subject, message, created_at`

	var c model.Contact
	err := r.pool.QueryRow(ctx, query, req.Name, req.Email, req.Phone, req.Subject, req.Message).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.CreatedAt)
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to store contact: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, phone, subject, message, created_at FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
