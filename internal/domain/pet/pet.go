package pet

import "time"

// Pet belongs to exactly one owner.
type Pet struct {
	ID        int64
	OwnerID   int64
	Name      string
	Species   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
