// AngelaMos | 2026
// repository.go

package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Tag, error)
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	Create(ctx context.Context, tag *Tag) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Tag, error) {
	query := `
		SELECT slug, display_name, is_system, created_by, created_at
		FROM tags
		ORDER BY is_system DESC, display_name ASC`

	tags := []Tag{}
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	query := `
		SELECT slug, display_name, is_system, created_by, created_at
		FROM tags
		WHERE slug = $1`

	var t Tag
	err := r.db.GetContext(ctx, &t, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (slug, display_name, is_system, created_by)
		VALUES ($1, $2, FALSE, $3)
		RETURNING created_at`

	if err := r.db.GetContext(ctx, &t.CreatedAt, query,
		t.Slug, t.DisplayName, t.CreatedBy); err != nil {
		return core.MapWriteError("create tag", err)
	}
	return nil
}
