package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
)

type mockPostRepo struct {
	posts   map[int64]*post.Post
	nextID  int64
	updates int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts:  make(map[int64]*post.Post),
		nextID: 1,
	}
}

func (m *mockPostRepo) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	created := *p
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.nextID++
	m.posts[created.ID] = &created
	return &created, nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id int64) (*post.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPostRepo) List(_ context.Context, filter post.PostFilter) ([]post.Post, int64, error) {
	var all []post.Post
	for _, p := range m.posts {
		if filter.Category == "" || p.Category == filter.Category {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return []post.Post{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], total, nil
}

func (m *mockPostRepo) Update(_ context.Context, id int64, fn post.UpdateFunc) (*post.Post, error) {
	current, ok := m.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	next, err := fn(*current)
	if err != nil {
		return nil, err
	}
	m.updates++
	cp := *next
	cp.ID = id
	m.posts[id] = &cp
	return &cp, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func validRequest() *post.CreatePostRequest {
	return &post.CreatePostRequest{
		Title:    "Top 10 Secrets",
		Content:  strings.Repeat("c", post.MinContentLength),
		Category: post.CategoryFiction,
	}
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(r *post.CreatePostRequest)
		wantField string
	}{
		{name: "valid post", mutate: func(r *post.CreatePostRequest) {}},
		{name: "title without marker", mutate: func(r *post.CreatePostRequest) { r.Title = "My Day" }, wantField: "title"},
		{name: "content 249", mutate: func(r *post.CreatePostRequest) { r.Content = r.Content[:249] }, wantField: "content"},
		{name: "lowercase category", mutate: func(r *post.CreatePostRequest) { r.Category = "fiction" }, wantField: "category"},
		{name: "summary 251", mutate: func(r *post.CreatePostRequest) { r.Summary = strings.Repeat("s", 251) }, wantField: "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPostRepo()
			svc := NewPostService(repo)
			req := validRequest()
			tt.mutate(req)

			got, err := svc.Create(ctx, req)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(1), got.ID)
				return
			}

			fe, ok := shared.AsFieldError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, fe.Field)
			assert.Empty(t, repo.posts)
		})
	}
}

func TestPostService_ListAppliesDefaults(t *testing.T) {
	svc := NewPostService(newMockPostRepo())
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
	}

	got, total, err := svc.List(context.Background(), post.PostFilter{Limit: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, got, 3)
}

func TestPostService_Update(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }

	repo := newMockPostRepo()
	svc := NewPostService(repo)
	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, &post.UpdatePostRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, 0, repo.updates)

	got, err = svc.Update(ctx, created.ID, &post.UpdatePostRequest{Category: str(post.CategoryNonFiction)})
	require.NoError(t, err)
	assert.Equal(t, post.CategoryNonFiction, got.Category)
	assert.Equal(t, 1, repo.updates)

	_, err = svc.Update(ctx, created.ID, &post.UpdatePostRequest{Summary: str(strings.Repeat("s", 251))})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, 1, repo.updates)

	_, err = svc.Update(ctx, 99, &post.UpdatePostRequest{Summary: str("")})
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestPostService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMockPostRepo())
	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 0), post.ErrPostNotFound)
}
