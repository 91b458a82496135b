package model

import "time"

// Asset is the result of a successful upload. Path is the storage key and
// must be persisted next to URL so the object can be deleted later.
type Asset struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Folder      string `json:"folder"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	// Optimized is false when the original bytes were stored as-is.
	Optimized bool `json:"optimized"`
}

type UploadInput struct {
	Folder      string
	Filename    string
	ContentType string
	Data        []byte
}

// DeletePayload is the media:delete task body.
type DeletePayload struct {
	Key   string `json:"key"`
	Owner string `json:"owner"`
}

// SweepOrphansPayload is the media:sweep_orphans task body.
type SweepOrphansPayload struct {
	GraceSeconds int64 `json:"grace_seconds"`
}

func (p SweepOrphansPayload) Grace() time.Duration {
	return time.Duration(p.GraceSeconds) * time.Second
}

type SweepResult struct {
	Scanned    int `json:"scanned"`
	Referenced int `json:"referenced"`
	Recent     int `json:"recent"`
	Removed    int `json:"removed"`
	Failed     int `json:"failed"`
}
