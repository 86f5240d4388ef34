package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindActiveUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	InsertSession(ctx context.Context, id, userID string, expiresAt time.Time) error
	FindValidSession(ctx context.Context, id string, now time.Time) (*shared.UserView, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindActiveUserByEmail fetches an active user by login email. Inactive
// accounts are filtered at the query level so they behave exactly like
// unknown emails.
func (r *PGRepository) FindActiveUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, role, is_active, last_login, created_at, updated_at
		FROM users
		WHERE email = $1 AND is_active`, email)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.IsActive, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin records the most recent successful authentication.
func (r *PGRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, userID, at.UTC())
	return err
}

// InsertSession persists a new session row.
func (r *PGRepository) InsertSession(ctx context.Context, id, userID string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		id, userID, expiresAt.UTC())
	return err
}

// FindValidSession resolves a session to its owning user. The join enforces
// all three validity conditions in one query: the row exists, it has not
// expired, and the owner is still active.
func (r *PGRepository) FindValidSession(ctx context.Context, id string, now time.Time) (*shared.UserView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, u.role
		FROM users u
		INNER JOIN sessions s ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > $2 AND u.is_active`, id, now.UTC())
	var view shared.UserView
	if err := row.Scan(&view.ID, &view.Email, &view.Name, &view.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &view, nil
}

// DeleteSession removes a session row. Deleting an absent session is a no-op.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions sweeps rows whose expiry has passed and reports how
// many were removed.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
