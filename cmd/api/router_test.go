package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return SetupRouter(newTestContainer(t))
}

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := container.Build(&config.Config{
		App: config.AppConfig{Environment: "test", Version: "test"},
		Storage: config.StorageConfig{
			Driver:         config.StorageDriverBadger,
			BadgerInMemory: true,
		},
		Redis: config.RedisConfig{CacheTTL: time.Minute},
	})
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)
	return c
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	var body struct {
		Data struct {
			Status   string            `json:"status"`
			Services map[string]string `json:"services"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, "ok", body.Data.Services["badger"])
}

func TestHealthEndpointDegraded(t *testing.T) {
	c := newTestContainer(t)
	r := SetupRouter(c)
	c.Cleanup()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Status   string            `json:"status"`
				Services map[string]string `json:"services"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, "degraded", body.Error.Details.Status)
	assert.Equal(t, "closed", body.Error.Details.Services["badger"])
}

func TestDuplicateAuthorEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	body := `{"name":"Jane Doe","phone_number":"1234567890"}`

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/authors", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusConflict, post())
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/comments", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
