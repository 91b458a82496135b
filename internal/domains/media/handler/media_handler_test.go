package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubsite-backend/internal/config"
	"clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/domains/media/service"
	"clubsite-backend/internal/infrastructure/storage"
	"clubsite-backend/internal/shared/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.objects[key] = data
	return nil
}

func (m *memStore) Remove(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (m *memStore) PublicURL(key string) string {
	return "http://localhost:9000/media/" + key
}

type uploadResponse struct {
	Success bool        `json:"success"`
	Data    model.Asset `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setup(t *testing.T, authed bool, maxBytes int64) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore{objects: map[string][]byte{}}
	svc := service.NewService(store, storage.NewImageProcessor(1920, 80), nil, nil, config.MediaConfig{MaxUploadBytes: maxBytes})
	h := NewMediaHandler(svc)

	r := gin.New()
	g := r.Group("/api/admin")
	if authed {
		g.Use(func(c *gin.Context) {
			auth.Set(c, auth.Context{AdminID: uuid.New(), Email: "admin@club.local"})
			c.Next()
		})
	}
	g.POST("/upload", h.Upload)
	g.POST("/delete-media", h.DeleteMedia)
	return r, store
}

func multipartBody(t *testing.T, folder, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if folder != "" {
		require.NoError(t, w.WriteField("folder", folder))
	}
	if data != nil {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func post(t *testing.T, r http.Handler, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, uploadResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func samplePNG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 500, 300))))
	return buf.Bytes()
}

func TestUpload_Unauthenticated(t *testing.T) {
	r, store := setup(t, false, 10<<20)
	body, ct := multipartBody(t, "players", "a.png", samplePNG(t))

	w, resp := post(t, r, "/api/admin/upload", body, ct)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	assert.Empty(t, store.objects)
}

func TestUpload_Validation(t *testing.T) {
	tests := []struct {
		name     string
		folder   string
		data     []byte
		maxBytes int64
		wantCode string
	}{
		{"missing folder", "", []byte("x"), 10 << 20, "FOLDER_REQUIRED"},
		{"missing file", "players", nil, 10 << 20, "FILE_REQUIRED"},
		{"too large", "players", make([]byte, 2048), 1024, "PAYLOAD_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := setup(t, true, tt.maxBytes)
			body, ct := multipartBody(t, tt.folder, "a.png", tt.data)

			w, resp := post(t, r, "/api/admin/upload", body, ct)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Empty(t, store.objects)
		})
	}
}

func TestUpload_ReturnsRoundTrippableURL(t *testing.T) {
	r, store := setup(t, true, 10<<20)
	body, ct := multipartBody(t, "players", "Goal Keeper.png", samplePNG(t))

	w, resp := post(t, r, "/api/admin/upload", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Regexp(t, `^players/\d+-[0-9a-z]{6}-goal-keeper\.jpg$`, resp.Data.Path)
	key, ok := model.KeyFromURL(resp.Data.URL)
	require.True(t, ok)
	assert.Equal(t, resp.Data.Path, key)
	assert.Contains(t, store.objects, resp.Data.Path)
	assert.Equal(t, 500, resp.Data.Width)
}

func TestDeleteMedia(t *testing.T) {
	r, store := setup(t, true, 10<<20)
	store.objects["players/1-abcdef-x.jpg"] = []byte("x")

	for i := 0; i < 2; i++ {
		w, resp := post(t, r, "/api/admin/delete-media", bytes.NewBufferString(`{"path":"players/1-abcdef-x.jpg"}`), "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	}
	assert.Empty(t, store.objects)

	w, resp := post(t, r, "/api/admin/delete-media", bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PATH_REQUIRED", resp.Error.Code)
}
