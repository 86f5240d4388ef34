package auth

import "time"

// User represents an admin account as stored in the credential store. The
// password hash never leaves this package.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a bearer record: possession of the ID authenticates as the
// owning user until ExpiresAt. Rows are created once and deleted once,
// never mutated.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}
