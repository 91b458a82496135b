package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Season Opener", "season-opener"},
		{"accents", "Élan Vital Café", "elan-vital-cafe"},
		{"vietnamese", "Nguyễn Đức", "nguyen-duc"},
		{"punctuation", "U-18s: Cup Final!!", "u-18s-cup-final"},
		{"underscores and dots", "team_photo.final", "team-photo-final"},
		{"collapses hyphens", "a -- b", "a-b"},
		{"only symbols", "?!#", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}
