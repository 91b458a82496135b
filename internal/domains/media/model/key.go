package model

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"clubsite-backend/internal/shared/utils"
)

// urlKeyMarker is the path segment that precedes the storage key in every
// public media URL.
const urlKeyMarker = "media/"

// FallbackExt is used when neither the filename nor the MIME type yields one.
const FallbackExt = "bin"

// NormalizeFolder slugifies each segment of a folder label.
// "Players" -> "players", "galleries/2024 Cup" -> "galleries/2024-cup".
func NormalizeFolder(folder string) string {
	var segments []string
	for _, seg := range strings.Split(folder, "/") {
		if s := utils.GenerateSlug(seg); s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, "/")
}

// BuildKey derives {folder}/{unix-ms}-{token}-{basename}.{ext}.
func BuildKey(folder string, at time.Time, token, filename, ext string) string {
	return fmt.Sprintf("%s/%d-%s-%s.%s", folder, at.UnixMilli(), token, Basename(filename), ext)
}

// Basename is the slugified filename without directory or extension.
func Basename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if s := utils.GenerateSlug(base); s != "" {
		return s
	}
	return "file"
}

// ExtFromFilename returns the lower-case extension without the dot.
func ExtFromFilename(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || len(ext) > 8 || strings.ContainsAny(ext, " ?#/") {
		return ""
	}
	return ext
}

var preferredExt = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/svg+xml":   "svg",
	"application/pdf": "pdf",
}

// ExtFromMIME maps a content type to an extension.
func ExtFromMIME(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := preferredExt[mt]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return ""
}

// OriginalExt picks the extension for bytes stored without optimization.
func OriginalExt(filename, contentType string) string {
	if ext := ExtFromFilename(filename); ext != "" {
		return ext
	}
	if ext := ExtFromMIME(contentType); ext != "" {
		return ext
	}
	return FallbackExt
}

// KeyFromURL recovers a storage key from a public URL: everything after the
// first "media/" up to the next "?". URLs without the marker yield false.
func KeyFromURL(rawURL string) (string, bool) {
	i := strings.Index(rawURL, urlKeyMarker)
	if i < 0 {
		return "", false
	}
	key := rawURL[i+len(urlKeyMarker):]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// ResolveKey prefers the persisted key and falls back to URL parsing.
func ResolveKey(storedPath, rawURL string) (string, bool) {
	if p := strings.TrimSpace(storedPath); p != "" {
		return p, true
	}
	return KeyFromURL(rawURL)
}

// PatchRef keeps a partial update of a url/key pair consistent. A URL sent
// without a key gets its key recovered from the URL (or "" so URL parsing
// applies later); clearing either side clears both. A nil pair is left alone.
func PatchRef(rawURL, key *string) (*string, *string) {
	if rawURL == nil && key == nil {
		return nil, nil
	}

	empty := ""
	if rawURL != nil && strings.TrimSpace(*rawURL) == "" {
		return &empty, &empty
	}
	if key != nil && strings.TrimSpace(*key) == "" {
		return &empty, &empty
	}

	if key == nil {
		u := strings.TrimSpace(*rawURL)
		k, _ := KeyFromURL(u)
		return &u, &k
	}
	k := strings.TrimSpace(*key)
	if rawURL == nil {
		return nil, &k
	}
	u := strings.TrimSpace(*rawURL)
	return &u, &k
}

// DraftRef fills a missing key from the URL on create.
func DraftRef(rawURL, key string) (string, string) {
	rawURL, key = strings.TrimSpace(rawURL), strings.TrimSpace(key)
	if key == "" && rawURL != "" {
		key, _ = KeyFromURL(rawURL)
	}
	return rawURL, key
}
