package content

import "time"

// Block is a structured content fragment keyed by slug. The public site
// fetches blocks by slug; the dashboard manages them.
type Block struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}
