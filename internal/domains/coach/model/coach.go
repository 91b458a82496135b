package model

import (
	"strings"
	"time"

	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared/crud"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type Coach struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      *string   `json:"role"`
	Bio       *string   `json:"bio"`
	Email     *string   `json:"email"`
	ImageURL  string    `json:"image_url"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Coach) RecordID() uuid.UUID { return c.ID }

func (c Coach) MediaRefs() []crud.MediaRef {
	return []crud.MediaRef{{Path: c.ImagePath, URL: c.ImageURL}}
}

func (c Coach) SearchText() []string {
	role := ""
	if c.Role != nil {
		role = *c.Role
	}
	return []string{c.Name, role}
}

type Draft struct {
	Name      string  `json:"name"`
	Role      *string `json:"role"`
	Bio       *string `json:"bio"`
	Email     *string `json:"email"`
	ImageURL  string  `json:"image_url"`
	ImagePath string  `json:"image_path"`
}

func (d Draft) Normalized() Draft {
	d.Name = strings.TrimSpace(d.Name)
	if d.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*d.Email))
		d.Email = &e
	}
	d.ImageURL, d.ImagePath = mediaModel.DraftRef(d.ImageURL, d.ImagePath)
	return d
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&d.Email, is.EmailFormat),
	)
}

type Patch struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name"`
	Role      *string   `json:"role"`
	Bio       *string   `json:"bio"`
	Email     *string   `json:"email"`
	ImageURL  *string   `json:"image_url"`
	ImagePath *string   `json:"image_path"`
}

func (p Patch) TargetID() uuid.UUID { return p.ID }

func (p Patch) Normalized() Patch {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &e
	}
	p.ImageURL, p.ImagePath = mediaModel.PatchRef(p.ImageURL, p.ImagePath)
	return p
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, crud.RequiredID),
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&p.Email, is.EmailFormat),
	)
}
