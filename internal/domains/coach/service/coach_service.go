package service

import (
	"time"

	"clubsite-backend/internal/domains/coach/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/cache"
)

type Service = crud.Service[model.Coach, model.Draft, model.Patch]

func NewService(repo crud.Repository[model.Coach, model.Draft, model.Patch], media crud.MediaDiscarder, c cache.Cache) *Service {
	return crud.NewService(shared.KindCoach, repo, media,
		crud.WithCache[model.Coach, model.Draft, model.Patch](c, 5*time.Minute),
	)
}
