package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/article/model"
	"clubsite-backend/internal/infrastructure/database"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = `id, title, slug, excerpt, content, category, author,
    image_url, image_path, published_at, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) crud.Repository[model.Article, model.Draft, model.Patch] {
	return &postgresRepository{pool: pool}
}

func scanArticle(row pgx.Row) (model.Article, error) {
	var a model.Article
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Excerpt,
		&a.Content,
		&a.Category,
		&a.Author,
		&a.ImageURL,
		&a.ImagePath,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// List returns every article, newest first.
func (r *postgresRepository) List(ctx context.Context) ([]model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY published_at DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}
	return articles, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Article{}, crud.ErrNotFound
		}
		return model.Article{}, fmt.Errorf("failed to get article by id: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) Create(ctx context.Context, d model.Draft) (model.Article, error) {
	query := `
        INSERT INTO articles (title, slug, excerpt, content, category, author, image_url, image_path, published_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
        RETURNING ` + articleColumns

	a, err := scanArticle(r.pool.QueryRow(ctx, query,
		d.Title,
		d.Slug,
		d.Excerpt,
		d.Content,
		d.Category,
		d.Author,
		d.ImageURL,
		d.ImagePath,
		d.PublishedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.Article{}, crud.ErrDuplicate
		}
		return model.Article{}, fmt.Errorf("failed to create article: %w", err)
	}
	return a, nil
}

// Update applies non-nil patch fields; last write wins.
func (r *postgresRepository) Update(ctx context.Context, p model.Patch) (model.Article, error) {
	query := `
        UPDATE articles
        SET
            title        = COALESCE($2, title),
            slug         = COALESCE($3, slug),
            excerpt      = NULLIF(COALESCE($4, excerpt), ''),
            content      = COALESCE($5, content),
            category     = NULLIF(COALESCE($6, category), ''),
            author       = NULLIF(COALESCE($7, author), ''),
            image_url    = COALESCE($8, image_url),
            image_path   = COALESCE($9, image_path),
            published_at = COALESCE($10, published_at),
            updated_at   = now()
        WHERE id = $1
        RETURNING ` + articleColumns

	a, err := scanArticle(r.pool.QueryRow(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Content,
		p.Category,
		p.Author,
		p.ImageURL,
		p.ImagePath,
		p.PublishedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Article{}, crud.ErrNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.Article{}, crud.ErrDuplicate
		}
		return model.Article{}, fmt.Errorf("failed to update article: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}
