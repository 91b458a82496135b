package repository

import (
	"context"
	"errors"
	"fmt"

	"clubsite-backend/internal/domains/gallery/model"
	"clubsite-backend/internal/infrastructure/database"
	"clubsite-backend/internal/shared/crud"
	pkgdb "clubsite-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const galleryColumns = `id, title, slug, description, to_char(event_date, 'YYYY-MM-DD'),
    cover_image_url, cover_image_path, created_at, updated_at`

const imageColumns = `id, gallery_id, image_url, image_path, caption, display_order, created_at, updated_at`

// PostgresRepository serves both the gallery editor and the nested image editor.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanGallery(row pgx.Row) (model.Gallery, error) {
	var g model.Gallery
	err := row.Scan(
		&g.ID,
		&g.Title,
		&g.Slug,
		&g.Description,
		&g.EventDate,
		&g.CoverImageURL,
		&g.CoverImagePath,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func scanImage(row pgx.Row) (model.Image, error) {
	var i model.Image
	err := row.Scan(&i.ID, &i.GalleryID, &i.ImageURL, &i.ImagePath, &i.Caption, &i.DisplayOrder, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Gallery, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+galleryColumns+` FROM galleries ORDER BY event_date DESC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query galleries: %w", err)
	}
	defer rows.Close()

	galleries := []model.Gallery{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gallery: %w", err)
		}
		g.Images = []model.Image{}
		index[g.ID] = len(galleries)
		galleries = append(galleries, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating galleries: %w", err)
	}
	if len(galleries) == 0 {
		return galleries, nil
	}

	imgRows, err := r.pool.Query(ctx, `SELECT `+imageColumns+` FROM gallery_images ORDER BY gallery_id, display_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		img, err := scanImage(imgRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		if i, ok := index[img.GalleryID]; ok {
			galleries[i].Images = append(galleries[i].Images, img)
		}
	}
	if err := imgRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gallery images: %w", err)
	}
	return galleries, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Gallery, error) {
	g, err := scanGallery(r.pool.QueryRow(ctx, `SELECT `+galleryColumns+` FROM galleries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Gallery{}, crud.ErrNotFound
		}
		return model.Gallery{}, fmt.Errorf("failed to get gallery by id: %w", err)
	}
	if g.Images, err = r.ListImages(ctx, id); err != nil {
		return model.Gallery{}, err
	}
	return g, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d model.Draft) (model.Gallery, error) {
	query := `
        INSERT INTO galleries (title, slug, description, event_date, cover_image_url, cover_image_path)
        VALUES ($1, $2, $3, $4::date, $5, $6)
        RETURNING ` + galleryColumns

	g, err := scanGallery(r.pool.QueryRow(ctx, query,
		d.Title, d.Slug, d.Description, d.EventDate, d.CoverImageURL, d.CoverImagePath))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.Gallery{}, crud.ErrDuplicate
		}
		return model.Gallery{}, fmt.Errorf("failed to create gallery: %w", err)
	}
	g.Images = []model.Image{}
	return g, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p model.Patch) (model.Gallery, error) {
	query := `
        UPDATE galleries
        SET
            title            = COALESCE($2, title),
            slug             = COALESCE($3, slug),
            description      = NULLIF(COALESCE($4, description), ''),
            event_date       = CASE WHEN $5::text IS NULL THEN event_date ELSE NULLIF($5::text, '')::date END,
            cover_image_url  = COALESCE($6, cover_image_url),
            cover_image_path = COALESCE($7, cover_image_path),
            updated_at       = now()
        WHERE id = $1
        RETURNING ` + galleryColumns

	g, err := scanGallery(r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.EventDate, p.CoverImageURL, p.CoverImagePath))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Gallery{}, crud.ErrNotFound
		}
		if database.IsUniqueViolation(err) {
			return model.Gallery{}, crud.ErrDuplicate
		}
		return model.Gallery{}, fmt.Errorf("failed to update gallery: %w", err)
	}
	if g.Images, err = r.ListImages(ctx, p.ID); err != nil {
		return model.Gallery{}, err
	}
	return g, nil
}

// Delete removes the gallery; gallery_images rows go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM galleries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gallery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GalleryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM galleries WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check gallery: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListImages(ctx context.Context, galleryID uuid.UUID) ([]model.Image, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+imageColumns+` FROM gallery_images WHERE gallery_id = $1 ORDER BY display_order ASC, id ASC`, galleryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer rows.Close()

	images := []model.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gallery images: %w", err)
	}
	return images, nil
}

func (r *PostgresRepository) GetImage(ctx context.Context, galleryID, imageID uuid.UUID) (model.Image, error) {
	img, err := scanImage(r.pool.QueryRow(ctx,
		`SELECT `+imageColumns+` FROM gallery_images WHERE id = $1 AND gallery_id = $2`, imageID, galleryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Image{}, crud.ErrNotFound
		}
		return model.Image{}, fmt.Errorf("failed to get gallery image: %w", err)
	}
	return img, nil
}

// InsertImage appends an image after the current highest display_order.
// The gallery row is locked so concurrent appends get distinct orders.
func (r *PostgresRepository) InsertImage(ctx context.Context, galleryID uuid.UUID, in model.NewImage) (model.Image, error) {
	return pkgdb.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (model.Image, error) {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM galleries WHERE id = $1 FOR UPDATE`, galleryID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.Image{}, crud.ErrNotFound
			}
			return model.Image{}, fmt.Errorf("failed to lock gallery: %w", err)
		}

		query := `
            INSERT INTO gallery_images (gallery_id, image_url, image_path, caption, display_order)
            SELECT $1, $2, $3, $4, COALESCE(MAX(display_order), 0) + 1
            FROM gallery_images WHERE gallery_id = $1
            RETURNING ` + imageColumns

		img, err := scanImage(tx.QueryRow(ctx, query, galleryID, in.ImageURL, in.ImagePath, in.Caption))
		if err != nil {
			return model.Image{}, fmt.Errorf("failed to insert gallery image: %w", err)
		}
		return img, nil
	})
}

func (r *PostgresRepository) UpdateCaption(ctx context.Context, galleryID, imageID uuid.UUID, caption *string) (model.Image, error) {
	query := `
        UPDATE gallery_images
        SET caption = $3, updated_at = now()
        WHERE id = $1 AND gallery_id = $2
        RETURNING ` + imageColumns

	img, err := scanImage(r.pool.QueryRow(ctx, query, imageID, galleryID, caption))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Image{}, crud.ErrNotFound
		}
		return model.Image{}, fmt.Errorf("failed to update gallery image: %w", err)
	}
	return img, nil
}

func (r *PostgresRepository) DeleteImage(ctx context.Context, galleryID, imageID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1 AND gallery_id = $2`, imageID, galleryID)
	if err != nil {
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}
