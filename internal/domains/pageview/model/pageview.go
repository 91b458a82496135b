package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxPathLength = 512
	TopPagesLimit = 10
)

var ErrInvalidRange = errors.New("range must be week, month or year")

type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange defaults to a week when s is empty.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	default:
		return "", ErrInvalidRange
	}
}

// Unit is the bucket granularity used for the series.
func (r Range) Unit() string {
	if r == RangeYear {
		return "month"
	}
	return "day"
}

type RecordRequest struct {
	PagePath string `json:"page_path"`
}

func (r RecordRequest) Normalized() RecordRequest {
	r.PagePath = strings.TrimSpace(r.PagePath)
	return r
}

func (r RecordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PagePath, validation.Required, validation.RuneLength(1, MaxPathLength)),
	)
}

type Bucket struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type PageCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

type Totals struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
	Total int64 `json:"total"`
}

type Stats struct {
	Range Range `json:"range"`
	Totals
	Series   []Bucket    `json:"series"`
	TopPages []PageCount `json:"top_pages"`
}

// Window returns the inclusive start of the range and its bucket labels,
// oldest first. Days are labelled YYYY-MM-DD and months YYYY-MM, in UTC.
func Window(r Range, now time.Time) (time.Time, []string) {
	now = now.UTC()
	today := StartOfDay(now)

	if r == RangeYear {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
		labels := make([]string, 12)
		for i := range labels {
			labels[i] = start.AddDate(0, i, 0).Format("2006-01")
		}
		return start, labels
	}

	days := 7
	if r == RangeMonth {
		days = 30
	}
	start := today.AddDate(0, 0, -(days - 1))
	labels := make([]string, days)
	for i := range labels {
		labels[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return start, labels
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FillSeries lays counts over the range's buckets; missing buckets are zero.
func FillSeries(labels []string, counts map[string]int64) []Bucket {
	series := make([]Bucket, len(labels))
	for i, label := range labels {
		series[i] = Bucket{Bucket: label, Count: counts[label]}
	}
	return series
}
