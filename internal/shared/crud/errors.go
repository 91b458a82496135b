package crud

import (
	"errors"

	"clubsite-backend/internal/shared/auth"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ToHTTPStatus(err error) int {
	var verrs validation.Errors
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return 401
	case errors.As(err, &verrs), errors.Is(err, ErrInvalidID):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrDuplicate):
		return 409
	default:
		return 500
	}
}

func ToErrorCode(err error) string {
	var verrs validation.Errors
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.As(err, &verrs):
		return "VALIDATION_FAILED"
	case errors.Is(err, ErrInvalidID):
		return "INVALID_ID"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE_SLUG"
	default:
		return "STORE_FAILURE"
	}
}
