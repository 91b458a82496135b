package repository

import (
	"context"
	"fmt"

	"clubsite-backend/internal/shared/crud"

	"github.com/jackc/pgx/v5/pgxpool"
)

// every column pair that can hold a media reference
const referencesQuery = `
    SELECT image_path, image_url FROM articles
    UNION ALL SELECT opponent_logo_path, opponent_logo_url FROM fixtures
    UNION ALL SELECT image_path, image_url FROM team_players
    UNION ALL SELECT image_path, image_url FROM coaches
    UNION ALL SELECT cover_image_path, cover_image_url FROM galleries
    UNION ALL SELECT image_path, image_url FROM gallery_images
`

type ReferenceRepository struct {
	pool *pgxpool.Pool
}

func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

func (r *ReferenceRepository) ListReferences(ctx context.Context) ([]crud.MediaRef, error) {
	rows, err := r.pool.Query(ctx, referencesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query media references: %w", err)
	}
	defer rows.Close()

	var refs []crud.MediaRef
	for rows.Next() {
		var ref crud.MediaRef
		if err := rows.Scan(&ref.Path, &ref.URL); err != nil {
			return nil, fmt.Errorf("failed to scan media reference: %w", err)
		}
		if !ref.Empty() {
			refs = append(refs, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media references: %w", err)
	}
	return refs, nil
}
