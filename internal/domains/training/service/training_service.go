package service

import (
	"time"

	"clubsite-backend/internal/domains/training/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/cache"
)

type Service = crud.Service[model.Session, model.Draft, model.Patch]

// NewService wires the training schedule editor. Sessions carry no media.
func NewService(repo crud.Repository[model.Session, model.Draft, model.Patch], media crud.MediaDiscarder, c cache.Cache) *Service {
	return crud.NewService(shared.KindTraining, repo, media,
		crud.WithCache[model.Session, model.Draft, model.Patch](c, 5*time.Minute),
	)
}
