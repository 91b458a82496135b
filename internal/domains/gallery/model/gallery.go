package model

import (
	"regexp"
	"strings"
	"time"

	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// MediaFolder is where gallery images and covers are uploaded.
const MediaFolder = "galleries"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Gallery is an event album. Images is always loaded with the gallery so
// that MediaRefs covers every asset deleted with it.
type Gallery struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description"`
	EventDate      *string   `json:"event_date"`
	CoverImageURL  string    `json:"cover_image_url"`
	CoverImagePath string    `json:"cover_image_path"`
	Images         []Image   `json:"images"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (g Gallery) RecordID() uuid.UUID { return g.ID }

func (g Gallery) MediaRefs() []crud.MediaRef {
	refs := make([]crud.MediaRef, 0, len(g.Images)+1)
	refs = append(refs, crud.MediaRef{Path: g.CoverImagePath, URL: g.CoverImageURL})
	for _, img := range g.Images {
		refs = append(refs, img.MediaRef())
	}
	return refs
}

func (g Gallery) SearchText() []string {
	desc := ""
	if g.Description != nil {
		desc = *g.Description
	}
	return []string{g.Title, desc}
}

type Image struct {
	ID           uuid.UUID `json:"id"`
	GalleryID    uuid.UUID `json:"gallery_id"`
	ImageURL     string    `json:"image_url"`
	ImagePath    string    `json:"image_path"`
	Caption      *string   `json:"caption"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i Image) MediaRef() crud.MediaRef {
	return crud.MediaRef{Path: i.ImagePath, URL: i.ImageURL}
}

// NewImage is the insert payload; DisplayOrder is assigned by the store.
type NewImage struct {
	ImageURL  string
	ImagePath string
	Caption   *string
}

type Draft struct {
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	Description    *string `json:"description"`
	EventDate      *string `json:"event_date"`
	CoverImageURL  string  `json:"cover_image_url"`
	CoverImagePath string  `json:"cover_image_path"`
}

func (d Draft) Normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	if strings.TrimSpace(d.Slug) == "" {
		d.Slug = d.Title
	}
	d.Slug = utils.GenerateSlug(d.Slug)
	d.CoverImageURL, d.CoverImagePath = mediaModel.DraftRef(d.CoverImageURL, d.CoverImagePath)
	return d
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&d.Slug, validation.Required, validation.Match(slugPattern)),
		validation.Field(&d.EventDate, validation.NilOrNotEmpty, validation.Date("2006-01-02")),
	)
}

type Patch struct {
	ID             uuid.UUID `json:"id"`
	Title          *string   `json:"title"`
	Slug           *string   `json:"slug"`
	Description    *string   `json:"description"`
	EventDate      *string   `json:"event_date"`
	CoverImageURL  *string   `json:"cover_image_url"`
	CoverImagePath *string   `json:"cover_image_path"`
}

func (p Patch) TargetID() uuid.UUID { return p.ID }

func (p Patch) Normalized() Patch {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
	}
	if p.Slug != nil {
		s := utils.GenerateSlug(*p.Slug)
		p.Slug = &s
	}
	p.CoverImageURL, p.CoverImagePath = mediaModel.PatchRef(p.CoverImageURL, p.CoverImagePath)
	return p
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, crud.RequiredID),
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.NilOrNotEmpty, validation.Match(slugPattern)),
		validation.Field(&p.EventDate, validation.Date("2006-01-02")),
	)
}

// CaptionPatch edits one image in place. A nil caption clears it.
type CaptionPatch struct {
	Caption *string `json:"caption"`
}

func (p CaptionPatch) Normalized() CaptionPatch {
	if p.Caption == nil {
		return p
	}
	c := strings.TrimSpace(*p.Caption)
	if c == "" {
		return CaptionPatch{}
	}
	p.Caption = &c
	return p
}

func (p CaptionPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Caption, validation.Length(0, 500)),
	)
}
