package service

import (
	"time"

	"clubsite-backend/internal/domains/article/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/cache"
)

type Service = crud.Service[model.Article, model.Draft, model.Patch]

func NewService(repo crud.Repository[model.Article, model.Draft, model.Patch], media crud.MediaDiscarder, c cache.Cache) *Service {
	return crud.NewService(shared.KindArticle, repo, media,
		crud.WithCache[model.Article, model.Draft, model.Patch](c, 5*time.Minute),
		crud.WithPublicFilter[model.Article, model.Draft, model.Patch](func(a model.Article, now time.Time) bool {
			return a.IsPublished(now)
		}),
	)
}
