package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"clubsite-backend/internal/domains/gallery/model"
	"clubsite-backend/internal/domains/gallery/service"
	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/internal/shared/response"
	"clubsite-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const formOverhead = 1 << 20

// FileReader is satisfied by the media service.
type FileReader interface {
	ReadFile(fh *multipart.FileHeader) ([]byte, error)
	MaxUploadBytes() int64
}

type ImageHandler struct {
	svc   *service.ImageService
	files FileReader
}

func NewImageHandler(svc *service.ImageService, files FileReader) *ImageHandler {
	return &ImageHandler{svc: svc, files: files}
}

// Register mounts the nested image routes on an authenticated group.
func (h *ImageHandler) Register(rg *gin.RouterGroup) {
	images := rg.Group("/gallery/:id/images")
	images.GET("", h.List)
	images.POST("", h.Upload)
	images.POST("/bulk", h.BulkUpload)
	images.PATCH("/:imageId", h.UpdateCaption)
	images.DELETE("/:imageId", h.Delete)
}

// List handles GET /api/admin/gallery/:id/images
func (h *ImageHandler) List(c *gin.Context) {
	galleryID, ok := h.galleryID(c)
	if !ok {
		return
	}
	images, err := h.svc.List(c.Request.Context(), auth.FromGin(c), galleryID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, images)
}

// Upload handles POST /api/admin/gallery/:id/images (multipart: file, caption)
func (h *ImageHandler) Upload(c *gin.Context) {
	ac := auth.FromGin(c)
	if err := ac.Require(); err != nil {
		h.handleError(c, err)
		return
	}
	galleryID, ok := h.galleryID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.files.MaxUploadBytes()+formOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		h.handleError(c, formError(err))
		return
	}
	f, err := h.readFile(fh)
	if err != nil {
		h.handleError(c, err)
		return
	}

	var caption *string
	if v, ok := c.GetPostForm("caption"); ok {
		caption = &v
	}

	img, err := h.svc.Add(c.Request.Context(), ac, galleryID, f, caption)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, img)
}

// BulkUpload handles POST /api/admin/gallery/:id/images/bulk (multipart: files)
func (h *ImageHandler) BulkUpload(c *gin.Context) {
	ac := auth.FromGin(c)
	if err := ac.Require(); err != nil {
		h.handleError(c, err)
		return
	}
	galleryID, ok := h.galleryID(c)
	if !ok {
		return
	}

	limit := h.files.MaxUploadBytes()*service.MaxBulkFiles + formOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, formError(err))
		return
	}

	headers := form.File["files"]
	if len(headers) > service.MaxBulkFiles {
		h.handleError(c, model.ErrTooManyFiles)
		return
	}
	files := make([]service.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.files.MaxUploadBytes() {
			h.handleError(c, mediaModel.ErrPayloadTooLarge)
			return
		}
		files = append(files, h.lazyFile(fh))
	}

	images, err := h.svc.AddBulk(c.Request.Context(), ac, galleryID, files)
	var bulkErr *model.BulkError
	if errors.As(err, &bulkErr) {
		status := mediaModel.ToHTTPStatus(bulkErr.Err)
		response.ErrorWithDetails(c, status, "BULK_UPLOAD_INCOMPLETE", "bulk upload stopped before all files were stored", gin.H{
			"inserted": bulkErr.Inserted,
			"failed":   bulkErr.Failed,
			"images":   images,
		})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, images)
}

type captionRequest struct {
	Caption *string `json:"caption"`
}

// UpdateCaption handles PATCH /api/admin/gallery/:id/images/:imageId {caption}
func (h *ImageHandler) UpdateCaption(c *gin.Context) {
	galleryID, imageID, ok := h.ids(c)
	if !ok {
		return
	}
	var req captionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	img, err := h.svc.UpdateCaption(c.Request.Context(), auth.FromGin(c), galleryID, imageID, model.CaptionPatch{Caption: req.Caption})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, img)
}

// Delete handles DELETE /api/admin/gallery/:id/images/:imageId
func (h *ImageHandler) Delete(c *gin.Context) {
	galleryID, imageID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.FromGin(c), galleryID, imageID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": imageID})
}

func (h *ImageHandler) readFile(fh *multipart.FileHeader) (service.File, error) {
	data, err := h.files.ReadFile(fh)
	if err != nil {
		return service.File{}, err
	}
	return service.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// lazyFile defers reading until the service stores this file.
func (h *ImageHandler) lazyFile(fh *multipart.FileHeader) service.File {
	return service.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open:        func() ([]byte, error) { return h.files.ReadFile(fh) },
	}
}

func (h *ImageHandler) galleryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleError(c, crud.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ImageHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	galleryID, ok := h.galleryID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		h.handleError(c, crud.ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}
	return galleryID, imageID, true
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return mediaModel.ErrPayloadTooLarge
	}
	return mediaModel.ErrFileRequired
}

func (h *ImageHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrTooManyFiles):
		response.BadRequest(c, err.Error())
	case mediaModel.ToHTTPStatus(err) == http.StatusBadRequest:
		response.ErrorResponse(c, http.StatusBadRequest, mediaModel.ToErrorCode(err), err.Error())
	case errors.Is(err, mediaModel.ErrStoreFailure):
		logger.ErrorWith("Gallery image upload failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, "STORE_FAILURE", "internal error")
	default:
		crud.HandleError(c, shared.KindGallery, err)
	}
}
