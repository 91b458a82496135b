package handler

import (
	"errors"
	"net/http"

	"clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/domains/media/service"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/response"
	"clubsite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file ceiling
const formOverhead = 1 << 20

type MediaHandler struct {
	svc *service.Service
}

func NewMediaHandler(svc *service.Service) *MediaHandler {
	return &MediaHandler{svc: svc}
}

type deleteMediaRequest struct {
	Path string `json:"path"`
}

// Upload handles POST /api/admin/upload (multipart: file, folder)
func (h *MediaHandler) Upload(c *gin.Context) {
	ac := auth.FromGin(c)
	if err := ac.Require(); err != nil {
		h.handleError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.svc.MaxUploadBytes()+formOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleError(c, model.ErrPayloadTooLarge)
			return
		}
		h.handleError(c, model.ErrFileRequired)
		return
	}

	if model.NormalizeFolder(c.PostForm("folder")) == "" {
		h.handleError(c, model.ErrFolderRequired)
		return
	}

	data, err := h.svc.ReadFile(fh)
	if err != nil {
		h.handleError(c, err)
		return
	}

	asset, err := h.svc.Upload(c.Request.Context(), ac, model.UploadInput{
		Folder:      c.PostForm("folder"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, asset)
}

// DeleteMedia handles POST /api/admin/delete-media {path}
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	var req deleteMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.FromGin(c), req.Path); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"path": req.Path})
}

func (h *MediaHandler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorWith("Media operation failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		})
	}
	response.ErrorResponse(c, status, model.ToErrorCode(err), err.Error())
}
