package service

import (
	"time"

	"clubsite-backend/internal/domains/fixture/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/cache"
)

type Service = crud.Service[model.Fixture, model.Draft, model.Patch]

func NewService(repo crud.Repository[model.Fixture, model.Draft, model.Patch], media crud.MediaDiscarder, c cache.Cache) *Service {
	return crud.NewService(shared.KindFixture, repo, media,
		crud.WithCache[model.Fixture, model.Draft, model.Patch](c, 5*time.Minute),
	)
}
