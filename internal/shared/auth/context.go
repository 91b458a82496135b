package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("admin session required")

const ginKey = "auth_context"

// Context identifies the administrator behind a request. It is resolved once
// by middleware.AdminAuth and passed explicitly into every mutating operation.
type Context struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
}

// IsAdmin reports whether the context carries a resolved administrator.
func (a Context) IsAdmin() bool {
	return a.AdminID != uuid.Nil && a.Email != ""
}

// Require returns ErrUnauthorized for an empty context.
func (a Context) Require() error {
	if !a.IsAdmin() {
		return ErrUnauthorized
	}
	return nil
}

func Set(c *gin.Context, ac Context) {
	c.Set(ginKey, ac)
}

// FromGin returns the context stored by the middleware, or the zero value.
func FromGin(c *gin.Context) Context {
	v, ok := c.Get(ginKey)
	if !ok {
		return Context{}
	}
	ac, _ := v.(Context)
	return ac
}
