// AngelaMos | 2026
// repository.go

package bookmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	// Create inserts the bookmark or returns the row already held for the pair.
	Create(ctx context.Context, userID, experienceID string) (*Bookmark, error)
	GetByID(ctx context.Context, id string) (*Bookmark, error)
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID, experienceID string) (*Bookmark, error) {
	query := `
		WITH inserted AS (
			INSERT INTO bookmarks (user_id, experience_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, experience_id) DO NOTHING
			RETURNING id, user_id, experience_id, created_at
		)
		SELECT id, user_id, experience_id, created_at FROM inserted
		UNION ALL
		SELECT id, user_id, experience_id, created_at FROM bookmarks
		WHERE user_id = $1 AND experience_id = $2
		LIMIT 1`

	var b Bookmark
	if err := r.db.GetContext(ctx, &b, query, userID, experienceID); err != nil {
		return nil, core.MapWriteError("create bookmark", err)
	}
	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Bookmark, error) {
	query := `
		SELECT id, user_id, experience_id, created_at
		FROM bookmarks
		WHERE id = $1`

	var b Bookmark
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bookmark: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	query := `
		SELECT
			b.id, b.user_id, b.experience_id, b.created_at,
			p.name AS place_name,
			e.price_range,
			e.tags
		FROM bookmarks b
		JOIN experiences e ON e.id = b.experience_id
		JOIN places p ON p.id = e.place_id
		WHERE b.user_id = $1 AND e.status = 'active'
		ORDER BY b.created_at DESC`

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return entries, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete bookmark: %w", core.ErrNotFound)
	}
	return nil
}
