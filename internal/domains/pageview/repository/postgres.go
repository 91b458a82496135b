package repository

import (
	"context"
	"fmt"
	"time"

	"clubsite-backend/internal/domains/pageview/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Record(ctx context.Context, path string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO page_views (page_path, viewed_at) VALUES ($1, $2)`, path, at)
	if err != nil {
		return fmt.Errorf("failed to record page view: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Totals(ctx context.Context, today, weekStart, monthStart time.Time) (model.Totals, error) {
	query := `
        SELECT
            COUNT(*) FILTER (WHERE viewed_at >= $1),
            COUNT(*) FILTER (WHERE viewed_at >= $2),
            COUNT(*) FILTER (WHERE viewed_at >= $3),
            COUNT(*)
        FROM page_views`

	var t model.Totals
	if err := r.pool.QueryRow(ctx, query, today, weekStart, monthStart).Scan(&t.Today, &t.Week, &t.Month, &t.Total); err != nil {
		return model.Totals{}, fmt.Errorf("failed to count page views: %w", err)
	}
	return t, nil
}

// Series counts hits per UTC day or month since the given instant, keyed
// the same way model.Window labels buckets.
func (r *PostgresRepository) Series(ctx context.Context, unit string, since time.Time) (map[string]int64, error) {
	format := "YYYY-MM-DD"
	if unit == "month" {
		format = "YYYY-MM"
	}

	query := `
        SELECT to_char(date_trunc($1, viewed_at AT TIME ZONE 'UTC'), $2) AS bucket, COUNT(*)
        FROM page_views
        WHERE viewed_at >= $3
        GROUP BY bucket`

	rows, err := r.pool.Query(ctx, query, unit, format, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query page view series: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var bucket string
		var n int64
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("failed to scan page view bucket: %w", err)
		}
		counts[bucket] = n
	}
	return counts, rows.Err()
}

func (r *PostgresRepository) TopPages(ctx context.Context, since time.Time, limit int) ([]model.PageCount, error) {
	query := `
        SELECT page_path, COUNT(*) AS hits
        FROM page_views
        WHERE viewed_at >= $1
        GROUP BY page_path
        ORDER BY hits DESC, page_path ASC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}
	defer rows.Close()

	pages := []model.PageCount{}
	for rows.Next() {
		var p model.PageCount
		if err := rows.Scan(&p.Path, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
