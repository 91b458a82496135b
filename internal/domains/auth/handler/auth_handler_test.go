package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubsite-backend/internal/domains/auth/model"
	"clubsite-backend/internal/domains/auth/service"
	"clubsite-backend/internal/shared/middleware"
	"clubsite-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	admins map[string]model.Admin
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	a, ok := m.admins[email]
	if !ok {
		return model.Admin{}, model.ErrAdminNotFound
	}
	return a, nil
}

func (m *memRepo) Upsert(ctx context.Context, email, hash, role string) (model.Admin, error) {
	a := model.Admin{ID: uuid.New(), Email: email, PasswordHash: hash, Role: role}
	m.admins[email] = a
	return a, nil
}

func newRouter(apply SchemaApplier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := jwt.NewManager("test-secret", time.Hour)
	svc := service.NewService(&memRepo{admins: map[string]model.Admin{}}, tokens, nil)
	h := NewAuthHandler(svc).WithSetup(apply, "admin@club.local", "pw-123456")

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", middleware.AdminAuth(tokens, nil), h.Me)
	r.POST("/api/admin/setup", h.Setup)
	return r
}

func do(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSetupLoginMe(t *testing.T) {
	applied := 0
	r := newRouter(func(ctx context.Context) error { applied++; return nil })

	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"admin@club.local","password":"pw-123456"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no admin before setup")

	w = do(r, http.MethodPost, "/api/admin/setup", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, applied)

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"admin@club.local","password":"pw-123456"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := extractToken(t, w.Body.String())

	w = do(r, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"admin@club.local"`)

	w = do(r, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetup_SchemaFailure(t *testing.T) {
	r := newRouter(func(ctx context.Context) error { return errors.New("permission denied") })
	w := do(r, http.MethodPost, "/api/admin/setup", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogin_Validation(t *testing.T) {
	r := newRouter(nil)
	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func extractToken(t *testing.T, body string) string {
	t.Helper()
	var resp struct {
		Data model.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}
