package service

import (
	"time"

	"clubsite-backend/internal/domains/gallery/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/cache"
)

type Service = crud.Service[model.Gallery, model.Draft, model.Patch]

// NewService wires the gallery editor. Deleting a gallery discards its
// cover and every image because the repository loads images with it.
func NewService(repo crud.Repository[model.Gallery, model.Draft, model.Patch], media crud.MediaDiscarder, c cache.Cache) *Service {
	return crud.NewService(shared.KindGallery, repo, media,
		crud.WithCache[model.Gallery, model.Draft, model.Patch](c, 5*time.Minute),
	)
}
