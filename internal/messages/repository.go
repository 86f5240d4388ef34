package messages

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// Repository defines persistence operations for contact messages.
type Repository interface {
	Insert(ctx context.Context, msg *Message) error
	List(ctx context.Context) ([]Message, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert persists a new message.
func (r *PGRepository) Insert(ctx context.Context, msg *Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messages (id, name, email, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.CreatedAt.UTC())
	return err
}

// List returns all messages, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, subject, body, created_at
		FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Delete removes a message by ID.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
