package service

import (
	"context"
	"time"

	"clubsite-backend/internal/domains/pageview/model"
	"clubsite-backend/internal/shared/auth"
)

// Repository is satisfied by *repository.PostgresRepository.
type Repository interface {
	Record(ctx context.Context, path string, at time.Time) error
	Totals(ctx context.Context, today, weekStart, monthStart time.Time) (model.Totals, error)
	Series(ctx context.Context, unit string, since time.Time) (map[string]int64, error)
	TopPages(ctx context.Context, since time.Time, limit int) ([]model.PageCount, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores one hit. Anyone may call it.
func (s *Service) Record(ctx context.Context, req model.RecordRequest) error {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.Record(ctx, req.PagePath, s.now().UTC())
}

func (s *Service) Stats(ctx context.Context, ac auth.Context, r model.Range) (*model.Stats, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	today := model.StartOfDay(now)
	weekStart, _ := model.Window(model.RangeWeek, now)
	monthStart, _ := model.Window(model.RangeMonth, now)

	totals, err := s.repo.Totals(ctx, today, weekStart, monthStart)
	if err != nil {
		return nil, err
	}

	start, labels := model.Window(r, now)
	counts, err := s.repo.Series(ctx, r.Unit(), start)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopPages(ctx, start, model.TopPagesLimit)
	if err != nil {
		return nil, err
	}

	return &model.Stats{
		Range:    r,
		Totals:   totals,
		Series:   model.FillSeries(labels, counts),
		TopPages: top,
	}, nil
}
