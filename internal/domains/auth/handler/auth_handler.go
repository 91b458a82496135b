package handler

import (
	"context"
	"errors"
	"net/http"

	"clubsite-backend/internal/domains/auth/model"
	"clubsite-backend/internal/domains/auth/service"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/response"
	"clubsite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SchemaApplier creates the tables; used by the development setup route.
type SchemaApplier func(ctx context.Context) error

type AuthHandler struct {
	svc               *service.Service
	applySchema       SchemaApplier
	bootstrapEmail    string
	bootstrapPassword string
}

func NewAuthHandler(svc *service.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// WithSetup enables Setup. Only wired in development.
func (h *AuthHandler) WithSetup(apply SchemaApplier, email, password string) *AuthHandler {
	h.applySchema = apply
	h.bootstrapEmail = email
	h.bootstrapPassword = password
	return h
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ac, err := h.svc.Me(auth.FromGin(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ac)
}

// Setup handles POST /api/admin/setup: applies the schema and upserts the
// bootstrap admin. Both steps are idempotent.
func (h *AuthHandler) Setup(c *gin.Context) {
	if h.applySchema == nil {
		response.NotFound(c, "setup is disabled")
		return
	}

	if err := h.applySchema(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}

	a, err := h.svc.Bootstrap(c.Request.Context(), h.bootstrapEmail, h.bootstrapPassword)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schema": "applied", "admin": a.Email})
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, model.ErrBootstrapMissing):
		response.BadRequest(c, err.Error())
	default:
		logger.ErrorWith("Auth operation failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, "STORE_FAILURE", "internal error")
	}
}
