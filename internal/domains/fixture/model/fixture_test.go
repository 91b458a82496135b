package model

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_Validate(t *testing.T) {
	kickoff := time.Date(2024, 8, 10, 15, 0, 0, 0, time.UTC)
	negative := -1

	tests := []struct {
		name      string
		draft     Draft
		wantField string
	}{
		{"valid", Draft{Opponent: "Rovers", MatchDate: &kickoff}, ""},
		{"missing opponent", Draft{Opponent: "  ", MatchDate: &kickoff}, "opponent"},
		{"missing match date", Draft{Opponent: "Rovers"}, "match_date"},
		{"unknown status", Draft{Opponent: "Rovers", MatchDate: &kickoff, Status: "abandoned?"}, "status"},
		{"negative score", Draft{Opponent: "Rovers", MatchDate: &kickoff, HomeScore: &negative}, "home_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Normalized().Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.wantField)
		})
	}
}

func TestDraft_Defaults(t *testing.T) {
	d := Draft{Opponent: " United "}.Normalized()
	assert.Equal(t, "United", d.Opponent)
	assert.Equal(t, StatusScheduled, d.Status)
	require.NotNil(t, d.IsHome)
	assert.True(t, *d.IsHome)
}

func TestPatch_Validate(t *testing.T) {
	finished := " Finished "
	assert.NoError(t, Patch{ID: uuid.New(), Status: &finished}.Normalized().Validate())
	assert.Error(t, Patch{Status: &finished}.Normalized().Validate())
}

func TestFixture_SearchText(t *testing.T) {
	venue := "Riverside"
	f := Fixture{Opponent: "Rovers", Venue: &venue}
	assert.Equal(t, []string{"Rovers", "Riverside", ""}, f.SearchText())
}
