package handler

import (
	"errors"
	"net/http"

	"clubsite-backend/internal/domains/pageview/model"
	"clubsite-backend/internal/domains/pageview/service"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/response"
	"clubsite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type PageViewHandler struct {
	svc *service.Service
}

func NewPageViewHandler(svc *service.Service) *PageViewHandler {
	return &PageViewHandler{svc: svc}
}

// Record handles POST /api/page-views {page_path}
func (h *PageViewHandler) Record(c *gin.Context) {
	var req model.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.svc.Record(c.Request.Context(), req); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"recorded": true})
}

// Stats handles GET /api/admin/page-views?range=week|month|year
func (h *PageViewHandler) Stats(c *gin.Context) {
	r, err := model.ParseRange(c.Query("range"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), auth.FromGin(c), r)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *PageViewHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "PAGE_PATH_REQUIRED", "page_path is required", verrs)
	default:
		logger.ErrorWith("Page view operation failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, "STORE_FAILURE", "internal error")
	}
}
