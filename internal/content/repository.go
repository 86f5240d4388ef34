package content

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// Repository defines persistence operations for content blocks.
type Repository interface {
	FindBySlug(ctx context.Context, slug string) (*Block, error)
	List(ctx context.Context) ([]Block, error)
	Create(ctx context.Context, slug, title, body string) (*Block, error)
	Update(ctx context.Context, slug, title, body string) (*Block, error)
	Delete(ctx context.Context, slug string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindBySlug fetches one block by slug.
func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*Block, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, slug, title, body, updated_at FROM content_blocks WHERE slug = $1`, slug)
	return scanBlock(row)
}

// List returns all blocks ordered by slug.
func (r *PGRepository) List(ctx context.Context) ([]Block, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, slug, title, body, updated_at FROM content_blocks ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var blocks []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.Slug, &b.Title, &b.Body, &b.UpdatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Create inserts a new block. A slug collision maps to shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, slug, title, body string) (*Block, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO content_blocks (slug, title, body, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, slug, title, body, updated_at`,
		slug, title, body, time.Now().UTC())
	block, err := scanBlock(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return block, nil
}

// Update rewrites an existing block by slug.
func (r *PGRepository) Update(ctx context.Context, slug, title, body string) (*Block, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE content_blocks SET title = $2, body = $3, updated_at = $4
		WHERE slug = $1
		RETURNING id, slug, title, body, updated_at`,
		slug, title, body, time.Now().UTC())
	return scanBlock(row)
}

// Delete removes a block by slug.
func (r *PGRepository) Delete(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM content_blocks WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanBlock(row pgx.Row) (*Block, error) {
	var b Block
	if err := row.Scan(&b.ID, &b.Slug, &b.Title, &b.Body, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

var _ Repository = (*PGRepository)(nil)
