package post

import (
	"time"
)

// CreatePostRequest - POST /api/v1/posts
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

// UpdatePostRequest - PATCH /api/v1/posts/:id
type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

func (req *UpdatePostRequest) IsEmpty() bool {
	return req.Title == nil && req.Content == nil && req.Category == nil && req.Summary == nil
}

type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostFilter - GET /api/v1/posts?category=&order=&limit=&offset=
type PostFilter struct {
	Category string `form:"category"` // exact match, empty means all
	Order    string `form:"order"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

func (p Post) ToResponse() *PostResponse {
	return &PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Summary:   p.Summary,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToResponses(posts []Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = *p.ToResponse()
	}
	return out
}
