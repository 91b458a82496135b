package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	at := time.UnixMilli(1714560000123)

	key := BuildKey("players", at, "a1b2c3", "Team Photo (Final).PNG", "jpg")
	assert.Equal(t, "players/1714560000123-a1b2c3-team-photo-final.jpg", key)

	key = BuildKey("galleries", at, "zzzzzz", `C:\Users\me\.png`, "png")
	assert.Equal(t, "galleries/1714560000123-zzzzzz-file.png", key)
}

func TestNormalizeFolder(t *testing.T) {
	assert.Equal(t, "players", NormalizeFolder("Players"))
	assert.Equal(t, "galleries/2024-cup", NormalizeFolder("/galleries//2024 Cup/"))
	assert.Equal(t, "", NormalizeFolder("   "))
	assert.Equal(t, "", NormalizeFolder("?!/"))
}

func TestOriginalExt(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
	}{
		{"crest.PNG", "image/png", "png"},
		{"scan", "image/jpeg", "jpg"},
		{"scan", "image/png; charset=binary", "png"},
		{"notes", "", FallbackExt},
		{"weird.ext?x", "", FallbackExt},
		{"archive.tar.gz", "application/gzip", "gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OriginalExt(tt.filename, tt.contentType), tt.filename)
	}
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"http://localhost:9000/media/players/1-abc-x.jpg", "players/1-abc-x.jpg", true},
		{"https://cdn.club.local/media/galleries/2024/1-abc-x.jpg?w=300&v=2", "galleries/2024/1-abc-x.jpg", true},
		{"https://cdn.club.local/uploads/players/x.jpg", "", false},
		{"https://cdn.club.local/media/?x=1", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := KeyFromURL(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	base := "https://cdn.club.local"
	at := time.Now()
	for _, name := range []string{"photo.jpg", "Ünïcödé name?.png", "a/b/c.webp", "noext"} {
		key := BuildKey(NormalizeFolder("Players"), at, "0k9z1x", name, OriginalExt(name, ""))
		got, ok := KeyFromURL(base + "/media/" + key)
		assert.True(t, ok, name)
		assert.Equal(t, key, got, name)
	}
}

func TestResolveKey(t *testing.T) {
	key, ok := ResolveKey("coaches/1-a-b.jpg", "https://elsewhere/x.jpg")
	assert.True(t, ok)
	assert.Equal(t, "coaches/1-a-b.jpg", key)

	key, ok = ResolveKey("", "https://cdn/media/coaches/2-a-b.jpg?t=1")
	assert.True(t, ok)
	assert.Equal(t, "coaches/2-a-b.jpg", key)

	_, ok = ResolveKey(" ", "https://elsewhere/x.jpg")
	assert.False(t, ok)
}

func TestPatchRef(t *testing.T) {
	str := func(s string) *string { return &s }
	deref := func(s *string) interface{} {
		if s == nil {
			return nil
		}
		return *s
	}

	tests := []struct {
		name             string
		url, key         *string
		wantURL, wantKey interface{}
	}{
		{"untouched", nil, nil, nil, nil},
		{"url only recovers key", str("https://cdn.club.local/media/players/2-b-new.jpg?v=1"), nil,
			"https://cdn.club.local/media/players/2-b-new.jpg?v=1", "players/2-b-new.jpg"},
		{"foreign url clears key", str("https://elsewhere.example/logo.png"), nil,
			"https://elsewhere.example/logo.png", ""},
		{"url cleared clears key", str("  "), str("players/1-a-old.jpg"), "", ""},
		{"key cleared clears url", nil, str(""), "", ""},
		{"both given are kept", str("https://cdn.club.local/media/a/1.jpg"), str(" a/1.jpg "),
			"https://cdn.club.local/media/a/1.jpg", "a/1.jpg"},
		{"key only", nil, str("a/1.jpg"), nil, "a/1.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, k := PatchRef(tt.url, tt.key)
			assert.Equal(t, tt.wantURL, deref(u))
			assert.Equal(t, tt.wantKey, deref(k))
		})
	}
}

func TestDraftRef(t *testing.T) {
	u, k := DraftRef("https://cdn.club.local/media/coaches/1-x-ann.jpg", "")
	assert.Equal(t, "https://cdn.club.local/media/coaches/1-x-ann.jpg", u)
	assert.Equal(t, "coaches/1-x-ann.jpg", k)

	u, k = DraftRef("", "")
	assert.Empty(t, u)
	assert.Empty(t, k)
}
