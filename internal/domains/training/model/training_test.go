package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr bool
	}{
		{"valid", Draft{Title: "U12", DayOfWeek: intPtr(2), StartTime: "17:30"}, false},
		{"sunday is zero", Draft{Title: "U12", DayOfWeek: intPtr(0), StartTime: "09:00"}, false},
		{"missing day", Draft{Title: "U12", StartTime: "17:30"}, true},
		{"day out of range", Draft{Title: "U12", DayOfWeek: intPtr(7), StartTime: "17:30"}, true},
		{"bad start", Draft{Title: "U12", DayOfWeek: intPtr(1), StartTime: "5pm"}, true},
		{"bad end", Draft{Title: "U12", DayOfWeek: intPtr(1), StartTime: "17:00", EndTime: strPtr("24:00")}, true},
		{"missing title", Draft{DayOfWeek: intPtr(1), StartTime: "17:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Normalized().Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatch_Validate(t *testing.T) {
	assert.NoError(t, Patch{ID: uuid.New(), DayOfWeek: intPtr(6)}.Validate())
	assert.Error(t, Patch{ID: uuid.New(), DayOfWeek: intPtr(-1)}.Validate())
	assert.Error(t, Patch{ID: uuid.New(), StartTime: strPtr("")}.Validate())
}

func TestSession_SearchText(t *testing.T) {
	s := Session{Title: "Keepers", DayOfWeek: 3, Location: strPtr("Pitch 2")}
	assert.Contains(t, s.SearchText(), "Pitch 2")
	assert.Contains(t, s.SearchText(), "Wednesday")
	assert.Empty(t, s.MediaRefs())
}

func TestPatch_PaddedTimesAcceptedLikeDraft(t *testing.T) {
	draft := Draft{Title: "U12", DayOfWeek: intPtr(2), StartTime: " 17:30 ", EndTime: strPtr(" 19:00 ")}
	assert.NoError(t, draft.Normalized().Validate())

	patch := Patch{ID: uuid.New(), StartTime: strPtr(" 17:30 "), EndTime: strPtr(" 19:00 ")}.Normalized()
	assert.NoError(t, patch.Validate())
	assert.Equal(t, "19:00", *patch.EndTime)
}
