package author

import (
	"fmt"
	"time"
)

// Author is a persisted blog author.
// ID and both timestamps are assigned by the store.
type Author struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`                 // required, unique
	PhoneNumber string    `json:"phone_number" db:"phone_number"` // 10 digits, stored trimmed
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (a Author) String() string {
	return fmt.Sprintf("Author(id=%d, name=%s)", a.ID, a.Name)
}
