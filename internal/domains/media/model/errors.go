package model

import (
	"errors"
	"net/http"

	"clubsite-backend/internal/shared/auth"
)

var (
	ErrFolderRequired  = errors.New("folder is required")
	ErrFileRequired    = errors.New("file is required")
	ErrPathRequired    = errors.New("path is required")
	ErrPayloadTooLarge = errors.New("file exceeds the 10 MiB upload limit")
	ErrStoreFailure    = errors.New("upload failed")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrFolderRequired),
		errors.Is(err, ErrFileRequired),
		errors.Is(err, ErrPathRequired),
		errors.Is(err, ErrPayloadTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrFolderRequired):
		return "FOLDER_REQUIRED"
	case errors.Is(err, ErrFileRequired):
		return "FILE_REQUIRED"
	case errors.Is(err, ErrPathRequired):
		return "PATH_REQUIRED"
	case errors.Is(err, ErrPayloadTooLarge):
		return "PAYLOAD_TOO_LARGE"
	default:
		return "STORE_FAILURE"
	}
}
