package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"clubsite-backend/internal/domains/contact/model"
	"clubsite-backend/internal/domains/contact/service"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/response"
	"clubsite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ContactHandler struct {
	svc *service.Service
}

func NewContactHandler(svc *service.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Send handles POST /api/send
func (h *ContactHandler) Send(c *gin.Context) {
	var req model.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	contact, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": contact.ID})
}

// List handles GET /api/admin/contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.svc.List(c.Request.Context(), auth.FromGin(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, contacts)
}

// Export handles GET /api/admin/contacts/export
func (h *ContactHandler) Export(c *gin.Context) {
	f, err := h.svc.Export(c.Request.Context(), auth.FromGin(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		h.handleError(c, fmt.Errorf("failed to write excel file: %w", err))
		return
	}

	filename := fmt.Sprintf("contacts-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ContactHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, model.ErrDeliveryFailed):
		logger.ErrorWith("Contact notification failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, "DELIVERY_FAILED", model.ErrDeliveryFailed.Error())
	default:
		logger.ErrorWith("Contact operation failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, "STORE_FAILURE", "internal error")
	}
}
