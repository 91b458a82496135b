package crud

import (
	"errors"
	"net/http"

	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/response"
	"clubsite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Handler exposes a Service over the uniform admin routes:
// GET/POST/PATCH/DELETE on a single path, ids carried in the JSON body.
type Handler[T Record, D Draft, P Patch] struct {
	svc *Service[T, D, P]
}

func NewHandler[T Record, D Draft, P Patch](svc *Service[T, D, P]) *Handler[T, D, P] {
	return &Handler[T, D, P]{svc: svc}
}

// RegisterAdmin mounts the editor routes on an authenticated group.
func (h *Handler[T, D, P]) RegisterAdmin(rg *gin.RouterGroup, path string) {
	rg.GET(path, h.List)
	rg.POST(path, h.Create)
	rg.PATCH(path, h.Update)
	rg.DELETE(path, h.Delete)
}

func (h *Handler[T, D, P]) RegisterPublic(rg *gin.RouterGroup, path string) {
	rg.GET(path, h.PublicList)
}

type deleteRequest struct {
	ID string `json:"id"`
}

// List handles GET /api/admin/{resource}?q=
func (h *Handler[T, D, P]) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.FromGin(c), c.Query("q"))
	if err != nil {
		HandleError(c, h.svc.Kind(), err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create handles POST /api/admin/{resource}
func (h *Handler[T, D, P]) Create(c *gin.Context) {
	var d D
	if err := c.ShouldBindJSON(&d); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), auth.FromGin(c), d)
	if err != nil {
		HandleError(c, h.svc.Kind(), err)
		return
	}
	response.Success(c, http.StatusOK, created)
}

// Update handles PATCH /api/admin/{resource} with {id, ...fields}
func (h *Handler[T, D, P]) Update(c *gin.Context) {
	var p P
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), auth.FromGin(c), p)
	if err != nil {
		HandleError(c, h.svc.Kind(), err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/{resource} with {id}
func (h *Handler[T, D, P]) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		HandleError(c, h.svc.Kind(), ErrInvalidID)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.FromGin(c), id); err != nil {
		HandleError(c, h.svc.Kind(), err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// PublicList handles GET /api/{resource}
func (h *Handler[T, D, P]) PublicList(c *gin.Context) {
	items, err := h.svc.PublicList(c.Request.Context())
	if err != nil {
		HandleError(c, h.svc.Kind(), err)
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	response.Success(c, http.StatusOK, items)
}

// HandleError writes the envelope for err. Store failures are logged with
// their cause and answered with a generic message.
func HandleError(c *gin.Context, kind string, err error) {
	status := ToHTTPStatus(err)
	code := ToErrorCode(err)

	var verrs validation.Errors
	switch {
	case status == http.StatusInternalServerError:
		logger.ErrorWith("Store operation failed", err, map[string]interface{}{
			"kind":       kind,
			"request_id": c.GetString("request_id"),
		})
		_ = c.Error(err)
		response.ErrorResponse(c, status, code, "internal error")
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	default:
		response.ErrorResponse(c, status, code, err.Error())
	}
}
