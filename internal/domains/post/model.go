package post

import (
	"fmt"
	"time"
)

const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
)

// Post is a persisted blog post.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`       // must contain a title marker
	Content   string    `json:"content" db:"content"`   // >= MinContentLength runes
	Category  string    `json:"category" db:"category"` // Fiction | Non-Fiction
	Summary   string    `json:"summary" db:"summary"`   // optional, <= MaxSummaryLength runes
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (p Post) String() string {
	return fmt.Sprintf("Post(id=%d, title=%s, content=%s, summary=%s)", p.ID, p.Title, p.Content, p.Summary)
}
