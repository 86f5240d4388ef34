// Package cli hosts operational helpers invoked through shinshu subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinshu-solutions/shinshu-web/internal/auth"
)

// SeedCLI provisions admin accounts directly against the database.
type SeedCLI struct {
	pool *pgxpool.Pool
}

// NewSeedCLI constructs a SeedCLI bound to the given pool.
func NewSeedCLI(pool *pgxpool.Pool) *SeedCLI {
	return &SeedCLI{pool: pool}
}

// EnsureUser creates the user if missing, or resets the password and
// reactivates the account if it already exists. Seeding must be idempotent so
// it can run on every deploy.
func (c *SeedCLI) EnsureUser(ctx context.Context, email, password, name, role string) error {
	if c == nil || c.pool == nil {
		return errors.New("seed cli: pool not configured")
	}
	if email == "" || password == "" {
		return errors.New("seed cli: email and password are required")
	}
	if name == "" {
		name = email
	}
	if role == "" {
		role = "admin"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed cli: hash password: %w", err)
	}

	const query = `
		INSERT INTO users (id, email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    name = EXCLUDED.name,
		    role = EXCLUDED.role,
		    is_active = TRUE,
		    updated_at = NOW()`
	if _, err := c.pool.Exec(ctx, query, uuid.NewString(), email, hash, name, role); err != nil {
		return fmt.Errorf("seed cli: upsert user: %w", err)
	}
	return nil
}
