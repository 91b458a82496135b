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
	"github.com/microcosm-cc/bluemonday"
)

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	contentPolicy = bluemonday.UGCPolicy()
)

type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     *string   `json:"excerpt"`
	Content     string    `json:"content"`
	Category    *string   `json:"category"`
	Author      *string   `json:"author"`
	ImageURL    string    `json:"image_url"`
	ImagePath   string    `json:"image_path"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a Article) RecordID() uuid.UUID { return a.ID }

func (a Article) MediaRefs() []crud.MediaRef {
	return []crud.MediaRef{{Path: a.ImagePath, URL: a.ImageURL}}
}

func (a Article) SearchText() []string {
	excerpt := ""
	if a.Excerpt != nil {
		excerpt = *a.Excerpt
	}
	return []string{a.Title, a.Slug, excerpt}
}

// IsPublished hides scheduled articles from public readers.
func (a Article) IsPublished(now time.Time) bool {
	return !a.PublishedAt.After(now)
}

// Draft is the create payload. PublishedAt defaults to now.
type Draft struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `json:"content"`
	Category    *string    `json:"category"`
	Author      *string    `json:"author"`
	ImageURL    string     `json:"image_url"`
	ImagePath   string     `json:"image_path"`
	PublishedAt *time.Time `json:"published_at"`
}

func (d Draft) Normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Slug = utils.GenerateSlug(d.Slug)
	d.Content = sanitize(d.Content)
	d.ImageURL, d.ImagePath = mediaModel.DraftRef(d.ImageURL, d.ImagePath)
	return d
}

func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&d.Slug, validation.Required, validation.Length(1, 200), validation.Match(slugPattern)),
		validation.Field(&d.Content, validation.Required),
		validation.Field(&d.Excerpt, validation.NilOrNotEmpty, validation.Length(0, 500)),
	)
}

// Patch updates the given fields of article ID.
type Patch struct {
	ID          uuid.UUID  `json:"id"`
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	Category    *string    `json:"category"`
	Author      *string    `json:"author"`
	ImageURL    *string    `json:"image_url"`
	ImagePath   *string    `json:"image_path"`
	PublishedAt *time.Time `json:"published_at"`
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
	if p.Content != nil {
		c := sanitize(*p.Content)
		p.Content = &c
	}
	p.ImageURL, p.ImagePath = mediaModel.PatchRef(p.ImageURL, p.ImagePath)
	return p
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, crud.RequiredID),
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.NilOrNotEmpty, validation.Match(slugPattern)),
		validation.Field(&p.Content, validation.NilOrNotEmpty),
	)
}

func sanitize(html string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(html))
}
