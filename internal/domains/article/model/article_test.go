package model

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		draft     Draft
		wantField string
	}{
		{"missing title", Draft{Slug: "a", Content: "<p>x</p>"}, "title"},
		{"missing slug", Draft{Title: "A", Content: "<p>x</p>"}, "slug"},
		{"missing content", Draft{Title: "A", Slug: "a"}, "content"},
		{"script-only content", Draft{Title: "A", Slug: "a", Content: "<script>alert(1)</script>"}, "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Normalized().Validate()
			require.Error(t, err)
			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.wantField)
		})
	}
}

func TestDraft_Normalized(t *testing.T) {
	d := Draft{
		Title:   "  Match Report  ",
		Slug:    "Match Report: Derby!",
		Content: `<p onclick="x()">Great <b>win</b></p><script>bad()</script>`,
	}.Normalized()

	assert.Equal(t, "Match Report", d.Title)
	assert.Equal(t, "match-report-derby", d.Slug)
	assert.Equal(t, "<p>Great <b>win</b></p>", d.Content)
	assert.NoError(t, d.Validate())
}

func TestPatch_Validate(t *testing.T) {
	empty := ""
	assert.Error(t, Patch{}.Validate(), "id required")
	assert.NoError(t, Patch{ID: uuid.New()}.Validate())
	assert.Error(t, Patch{ID: uuid.New(), Title: &empty}.Normalized().Validate())
}

func TestArticle_IsPublished(t *testing.T) {
	now := time.Now()
	assert.True(t, Article{PublishedAt: now.Add(-time.Minute)}.IsPublished(now))
	assert.False(t, Article{PublishedAt: now.Add(time.Hour)}.IsPublished(now))
}
