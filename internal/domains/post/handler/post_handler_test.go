package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post/repository"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/infrastructure/kvstore"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page  int   `json:"page"`
		Total int64 `json:"total"`
	} `json:"meta"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := kvstore.Open(kvstore.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewBadgerRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	h := NewPostHandler(service.NewPostService(repo))

	r := gin.New()
	posts := r.Group("/api/v1/posts")
	posts.POST("", h.Create)
	posts.GET("", h.List)
	posts.GET("/:id", h.GetByID)
	posts.PATCH("/:id", h.Update)
	posts.DELETE("/:id", h.Delete)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func postBody(title string, contentLen int, category, summary string) string {
	return fmt.Sprintf(`{"title":%q,"content":%q,"category":%q,"summary":%q}`,
		title, strings.Repeat("c", contentLen), category, summary)
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantField string
	}{
		{"valid", postBody("Top 10 Secrets", 250, "Fiction", ""), http.StatusCreated, ""},
		{"no marker", postBody("My Day", 250, "Fiction", ""), http.StatusBadRequest, "title"},
		{"content 249", postBody("Top 10 Secrets", 249, "Fiction", ""), http.StatusBadRequest, "content"},
		{"bad category", postBody("Top 10 Secrets", 250, "fiction", ""), http.StatusBadRequest, "category"},
		{"summary 251", postBody("Top 10 Secrets", 250, "Non-Fiction", strings.Repeat("s", 251)), http.StatusBadRequest, "summary"},
		{"not json", `title=Top`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t)

			w, env := do(t, r, http.MethodPost, "/api/v1/posts", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantField != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
				assert.Contains(t, env.Error.Details, tt.wantField)
			}
		})
	}
}

func TestPostLifecycle(t *testing.T) {
	r := setupRouter(t)
	do(t, r, http.MethodPost, "/api/v1/posts", postBody("Top One", 300, "Fiction", ""))
	do(t, r, http.MethodPost, "/api/v1/posts", postBody("Top Two", 300, "Non-Fiction", ""))

	w, env := do(t, r, http.MethodGet, "/api/v1/posts?category=Non-Fiction", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Contains(t, string(env.Data), `"Top Two"`)

	w, env = do(t, r, http.MethodPatch, "/api/v1/posts/1", `{"summary":"Guess what"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"Guess what"`)

	w, env = do(t, r, http.MethodPatch, "/api/v1/posts/1", `{"category":"Poetry"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "category")

	w, _ = do(t, r, http.MethodGet, "/api/v1/posts/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/posts/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/posts/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "POST_NOT_FOUND", env.Error.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/posts/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func serve(r *gin.Engine, method, path, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestConcurrentCreatePosts(t *testing.T) {
	r := setupRouter(t)

	const requests = 200
	codes := make(chan int, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes <- serve(r, http.MethodPost, "/api/v1/posts", postBody(fmt.Sprintf("Top %d", i), 250, "Fiction", ""))
		}(i)
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusCreated, code)
	}

	_, env := do(t, r, http.MethodGet, "/api/v1/posts?limit=1", "")
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(requests), env.Meta.Total)
}

func TestConcurrentPatchesOfDifferentFields(t *testing.T) {
	r := setupRouter(t)
	w, _ := do(t, r, http.MethodPost, "/api/v1/posts", postBody("Top One", 300, "Fiction", ""))
	require.Equal(t, http.StatusCreated, w.Code)

	patches := []string{
		`{"summary":"Guess what"}`,
		`{"category":"Non-Fiction"}`,
		`{"title":"Top Secret"}`,
	}
	var wg sync.WaitGroup
	for _, body := range patches {
		wg.Add(1)
		go func(body string) {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, serve(r, http.MethodPatch, "/api/v1/posts/1", body))
		}(body)
	}
	wg.Wait()

	_, env := do(t, r, http.MethodGet, "/api/v1/posts/1", "")
	var got struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Summary  string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Top Secret", got.Title)
	assert.Equal(t, "Non-Fiction", got.Category)
	assert.Equal(t, "Guess what", got.Summary)
}
