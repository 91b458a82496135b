package model

import (
	"strings"
	"time"

	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared/crud"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
	StatusPostponed = "postponed"
	StatusCancelled = "cancelled"
)

var statuses = []interface{}{StatusScheduled, StatusLive, StatusFinished, StatusPostponed, StatusCancelled}

type Fixture struct {
	ID               uuid.UUID `json:"id"`
	Opponent         string    `json:"opponent"`
	MatchDate        time.Time `json:"match_date"`
	Venue            *string   `json:"venue"`
	Competition      *string   `json:"competition"`
	IsHome           bool      `json:"is_home"`
	HomeScore        *int      `json:"home_score"`
	AwayScore        *int      `json:"away_score"`
	Status           string    `json:"status"`
	OpponentLogoURL  string    `json:"opponent_logo_url"`
	OpponentLogoPath string    `json:"opponent_logo_path"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (f Fixture) RecordID() uuid.UUID { return f.ID }

func (f Fixture) MediaRefs() []crud.MediaRef {
	return []crud.MediaRef{{Path: f.OpponentLogoPath, URL: f.OpponentLogoURL}}
}

func (f Fixture) SearchText() []string {
	return []string{f.Opponent, deref(f.Venue), deref(f.Competition)}
}

type Draft struct {
	Opponent         string     `json:"opponent"`
	MatchDate        *time.Time `json:"match_date"`
	Venue            *string    `json:"venue"`
	Competition      *string    `json:"competition"`
	IsHome           *bool      `json:"is_home"`
	HomeScore        *int       `json:"home_score"`
	AwayScore        *int       `json:"away_score"`
	Status           string     `json:"status"`
	OpponentLogoURL  string     `json:"opponent_logo_url"`
	OpponentLogoPath string     `json:"opponent_logo_path"`
}

func (d Draft) Normalized() Draft {
	d.Opponent = strings.TrimSpace(d.Opponent)
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if d.Status == "" {
		d.Status = StatusScheduled
	}
	if d.IsHome == nil {
		home := true
		d.IsHome = &home
	}
	d.OpponentLogoURL, d.OpponentLogoPath = mediaModel.DraftRef(d.OpponentLogoURL, d.OpponentLogoPath)
	return d
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Opponent, validation.Required, validation.Length(1, 120)),
		validation.Field(&d.MatchDate, validation.Required),
		validation.Field(&d.Status, validation.In(statuses...)),
		validation.Field(&d.HomeScore, validation.Min(0)),
		validation.Field(&d.AwayScore, validation.Min(0)),
	)
}

type Patch struct {
	ID               uuid.UUID  `json:"id"`
	Opponent         *string    `json:"opponent"`
	MatchDate        *time.Time `json:"match_date"`
	Venue            *string    `json:"venue"`
	Competition      *string    `json:"competition"`
	IsHome           *bool      `json:"is_home"`
	HomeScore        *int       `json:"home_score"`
	AwayScore        *int       `json:"away_score"`
	Status           *string    `json:"status"`
	OpponentLogoURL  *string    `json:"opponent_logo_url"`
	OpponentLogoPath *string    `json:"opponent_logo_path"`
}

func (p Patch) TargetID() uuid.UUID { return p.ID }

func (p Patch) Normalized() Patch {
	if p.Opponent != nil {
		o := strings.TrimSpace(*p.Opponent)
		p.Opponent = &o
	}
	if p.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*p.Status))
		p.Status = &s
	}
	p.OpponentLogoURL, p.OpponentLogoPath = mediaModel.PatchRef(p.OpponentLogoURL, p.OpponentLogoPath)
	return p
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, crud.RequiredID),
		validation.Field(&p.Opponent, validation.NilOrNotEmpty),
		validation.Field(&p.Status, validation.NilOrNotEmpty, validation.In(statuses...)),
		validation.Field(&p.HomeScore, validation.Min(0)),
		validation.Field(&p.AwayScore, validation.Min(0)),
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
