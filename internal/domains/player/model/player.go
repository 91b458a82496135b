package model

import (
	"strings"
	"time"

	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared/crud"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Player struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Position     *string   `json:"position"`
	JerseyNumber *int      `json:"jersey_number"`
	Nationality  *string   `json:"nationality"`
	DateOfBirth  *string   `json:"date_of_birth"` // YYYY-MM-DD
	Bio          *string   `json:"bio"`
	ImageURL     string    `json:"image_url"`
	ImagePath    string    `json:"image_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p Player) RecordID() uuid.UUID { return p.ID }

func (p Player) MediaRefs() []crud.MediaRef {
	return []crud.MediaRef{{Path: p.ImagePath, URL: p.ImageURL}}
}

func (p Player) SearchText() []string {
	return []string{p.Name, deref(p.Position), deref(p.Nationality)}
}

type Draft struct {
	Name         string  `json:"name"`
	Position     *string `json:"position"`
	JerseyNumber *int    `json:"jersey_number"`
	Nationality  *string `json:"nationality"`
	DateOfBirth  *string `json:"date_of_birth"`
	Bio          *string `json:"bio"`
	ImageURL     string  `json:"image_url"`
	ImagePath    string  `json:"image_path"`
}

func (d Draft) Normalized() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.ImageURL, d.ImagePath = mediaModel.DraftRef(d.ImageURL, d.ImagePath)
	return d
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&d.JerseyNumber, validation.Min(1), validation.Max(99)),
		validation.Field(&d.DateOfBirth, validation.Date(dateLayout)),
	)
}

type Patch struct {
	ID           uuid.UUID `json:"id"`
	Name         *string   `json:"name"`
	Position     *string   `json:"position"`
	JerseyNumber *int      `json:"jersey_number"`
	Nationality  *string   `json:"nationality"`
	DateOfBirth  *string   `json:"date_of_birth"`
	Bio          *string   `json:"bio"`
	ImageURL     *string   `json:"image_url"`
	ImagePath    *string   `json:"image_path"`
}

func (p Patch) TargetID() uuid.UUID { return p.ID }

func (p Patch) Normalized() Patch {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
	p.ImageURL, p.ImagePath = mediaModel.PatchRef(p.ImageURL, p.ImagePath)
	return p
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, crud.RequiredID),
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&p.JerseyNumber, validation.Min(1), validation.Max(99)),
		validation.Field(&p.DateOfBirth, validation.Date(dateLayout)),
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
