package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubsite-backend/internal/domains/contact/model"
	"clubsite-backend/internal/domains/contact/service"
	"clubsite-backend/internal/infrastructure/email"
	"clubsite-backend/internal/shared/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	rows []model.Contact
}

func (s *stubRepo) Create(ctx context.Context, req model.Request) (model.Contact, error) {
	c := model.Contact{ID: uuid.New(), Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message, CreatedAt: time.Now()}
	s.rows = append(s.rows, c)
	return c, nil
}

func (s *stubRepo) List(ctx context.Context) ([]model.Contact, error) { return s.rows, nil }

type stubMailer struct{ err error }

func (m stubMailer) Send(ctx context.Context, msg email.Message) error { return m.err }

func router(mailErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContactHandler(service.NewService(&stubRepo{}, stubMailer{err: mailErr}, "info@club.local"))
	r := gin.New()
	r.POST("/api/send", h.Send)
	admin := r.Group("/api/admin", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			auth.Set(c, auth.Context{AdminID: uuid.New(), Email: "admin@club.local"})
		}
		c.Next()
	})
	admin.GET("/contacts/export", h.Export)
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSend(t *testing.T) {
	valid := `{"name":"Sam","email":"sam@example.com","subject":"Hi","message":"Hello"}`

	assert.Equal(t, http.StatusOK, post(router(nil), valid).Code)

	w := post(router(nil), `{"name":"Sam","email":"sam@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")

	w = post(router(errors.New("smtp down")), valid)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "DELIVERY_FAILED")
}

func TestExport(t *testing.T) {
	r := router(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/contacts/export", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts/export", nil)
	req.Header.Set("Authorization", "Bearer test")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "contacts-")
	// xlsx is a zip archive
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}
