package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Unknown email, inactive
	// account and wrong password all map here so callers cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated indicates a missing, expired or revoked session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
