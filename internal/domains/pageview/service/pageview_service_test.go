package service

import (
	"context"
	"testing"
	"time"

	"clubsite-backend/internal/domains/pageview/model"
	"clubsite-backend/internal/shared/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hit struct {
	path string
	at   time.Time
}

// memRepo aggregates in memory with the same bucketing rules as the SQL.
type memRepo struct {
	hits []hit
}

func (m *memRepo) Record(ctx context.Context, path string, at time.Time) error {
	m.hits = append(m.hits, hit{path, at})
	return nil
}

func (m *memRepo) Totals(ctx context.Context, today, weekStart, monthStart time.Time) (model.Totals, error) {
	var t model.Totals
	for _, h := range m.hits {
		t.Total++
		if !h.at.Before(today) {
			t.Today++
		}
		if !h.at.Before(weekStart) {
			t.Week++
		}
		if !h.at.Before(monthStart) {
			t.Month++
		}
	}
	return t, nil
}

func (m *memRepo) Series(ctx context.Context, unit string, since time.Time) (map[string]int64, error) {
	layout := "2006-01-02"
	if unit == "month" {
		layout = "2006-01"
	}
	out := map[string]int64{}
	for _, h := range m.hits {
		if !h.at.Before(since) {
			out[h.at.UTC().Format(layout)]++
		}
	}
	return out, nil
}

func (m *memRepo) TopPages(ctx context.Context, since time.Time, limit int) ([]model.PageCount, error) {
	counts := map[string]int64{}
	for _, h := range m.hits {
		if !h.at.Before(since) {
			counts[h.path]++
		}
	}
	var out []model.PageCount
	for p, n := range counts {
		out = append(out, model.PageCount{Path: p, Count: n})
	}
	return out, nil
}

var admin = auth.Context{AdminID: uuid.New(), Email: "admin@club.local"}

func TestRecord_TrimsAndRejectsEmpty(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.Record(context.Background(), model.RecordRequest{PagePath: "  /teams "}))
	require.Len(t, repo.hits, 1)
	assert.Equal(t, "/teams", repo.hits[0].path)

	assert.Error(t, svc.Record(context.Background(), model.RecordRequest{PagePath: " "}))
	assert.Len(t, repo.hits, 1)
}

func TestStats_WeekSeries(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{hits: []hit{
		{"/", now.Add(-time.Hour)},
		{"/", now.Add(-2 * time.Hour)},
		{"/news", now.AddDate(0, 0, -3)},
		{"/news", now.AddDate(0, 0, -20)},
		{"/old", now.AddDate(-1, 0, 0)},
	}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background(), admin, model.RangeWeek)
	require.NoError(t, err)

	assert.Equal(t, model.Totals{Today: 2, Week: 3, Month: 4, Total: 5}, stats.Totals)
	require.Len(t, stats.Series, 7)
	assert.Equal(t, model.Bucket{Bucket: "2024-03-07", Count: 1}, stats.Series[3])
	assert.Equal(t, model.Bucket{Bucket: "2024-03-10", Count: 2}, stats.Series[6])
	assert.Zero(t, stats.Series[0].Count)
	assert.Len(t, stats.TopPages, 2)
}

func TestStats_YearUsesMonthlyBuckets(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{hits: []hit{
		{"/", time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC)},
		{"/", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"/", time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background(), admin, model.RangeYear)
	require.NoError(t, err)

	require.Len(t, stats.Series, 12)
	assert.Equal(t, model.Bucket{Bucket: "2023-04", Count: 1}, stats.Series[0])
	assert.Equal(t, model.Bucket{Bucket: "2024-03", Count: 1}, stats.Series[11])
}

func TestStats_RequiresAdmin(t *testing.T) {
	svc := NewService(&memRepo{})
	_, err := svc.Stats(context.Background(), auth.Context{}, model.RangeWeek)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}
