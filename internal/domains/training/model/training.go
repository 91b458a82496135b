package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"clubsite-backend/internal/shared/crud"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Session is a recurring weekly training slot. DayOfWeek is 0 (Sunday) to 6.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	GroupName *string   `json:"group_name"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Location  *string   `json:"location"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Session) RecordID() uuid.UUID { return s.ID }

func (s Session) MediaRefs() []crud.MediaRef { return nil }

func (s Session) SearchText() []string {
	return []string{s.Title, deref(s.Location), deref(s.GroupName), time.Weekday(s.DayOfWeek).String(), strconv.Itoa(s.DayOfWeek)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type Draft struct {
	Title     string  `json:"title"`
	GroupName *string `json:"group_name"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
}

func (d Draft) Normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.StartTime = strings.TrimSpace(d.StartTime)
	if d.EndTime != nil {
		e := strings.TrimSpace(*d.EndTime)
		d.EndTime = &e
	}
	return d
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&d.DayOfWeek, validation.NotNil, validation.Min(0), validation.Max(6)),
		validation.Field(&d.StartTime, validation.Required, validation.Match(clockPattern).Error("must be HH:MM")),
		validation.Field(&d.EndTime, validation.Match(clockPattern).Error("must be HH:MM")),
	)
}

type Patch struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title"`
	GroupName *string   `json:"group_name"`
	DayOfWeek *int      `json:"day_of_week"`
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Location  *string   `json:"location"`
	Notes     *string   `json:"notes"`
}

func (p Patch) TargetID() uuid.UUID { return p.ID }

func (p Patch) Normalized() Patch {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
	}
	if p.StartTime != nil {
		st := strings.TrimSpace(*p.StartTime)
		p.StartTime = &st
	}
	if p.EndTime != nil {
		e := strings.TrimSpace(*p.EndTime)
		p.EndTime = &e
	}
	return p
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, crud.RequiredID),
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.DayOfWeek, validation.Min(0), validation.Max(6)),
		validation.Field(&p.StartTime, validation.NilOrNotEmpty, validation.Match(clockPattern).Error("must be HH:MM")),
		validation.Field(&p.EndTime, validation.Match(clockPattern).Error("must be HH:MM")),
	)
}
