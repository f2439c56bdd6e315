// AngelaMos | 2026
// repository.go

package experience

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Experience) error
	Feed(ctx context.Context, params FeedParams) ([]Row, int, error)
	GetVisible(ctx context.Context, id, viewerID string) (*Row, error)
	ExistsActive(ctx context.Context, id string) (bool, error)
	ListForModeration(ctx context.Context, status string, limit, offset int) ([]Row, int, error)
	Moderate(ctx context.Context, id, status string, reason *string, moderatorID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// rowSelect expects the viewer id as $1; an empty viewer never matches.
const rowSelect = `
	SELECT
		e.id, e.user_id, e.place_id, e.price_range, e.tags, e.brief_description,
		e.images, e.visit_date, e.status, e.moderation_reason, e.moderated_by,
		e.moderated_at, e.visibility, e.created_at,
		p.name AS place_name,
		p.city AS place_city,
		u.display_name AS author_display_name,
		u.username AS author_username,
		u.avatar_url AS author_avatar_url,
		EXISTS (
			SELECT 1 FROM bookmarks b
			WHERE b.experience_id = e.id AND b.user_id::text = $1::text
		) AS bookmarked
	FROM experiences e
	JOIN places p ON p.id = e.place_id
	JOIN users u ON u.id = e.user_id`

const feedWhere = `
	WHERE e.status = 'active'
	  AND e.visibility = 'public'
	  AND u.deleted_at IS NULL
	  AND NOT EXISTS (
		SELECT 1 FROM blocks bl
		WHERE bl.blocker_id::text = $1::text AND bl.blocked_id = e.user_id
	  )`

func (r *repository) Create(ctx context.Context, e *Experience) error {
	query := `
		INSERT INTO experiences (
			user_id, place_id, price_range, tags, brief_description, images,
			visit_date, visibility
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.UserID,
		e.PlaceID,
		e.PriceRange,
		e.Tags,
		e.BriefDescription,
		e.Images,
		e.VisitDate,
		e.Visibility,
	).Scan(&e.ID, &e.Status, &e.CreatedAt)
	if err != nil {
		return core.MapWriteError("create experience", err)
	}
	return nil
}

func (r *repository) Feed(ctx context.Context, params FeedParams) ([]Row, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM experiences e
		JOIN users u ON u.id = e.user_id` + feedWhere

	if err := r.db.GetContext(ctx, &total, countQuery, params.ViewerID); err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}

	query := rowSelect + feedWhere + `
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3`

	rows := []Row{}
	if err := r.db.SelectContext(ctx, &rows, query,
		params.ViewerID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list feed: %w", err)
	}

	return rows, total, nil
}

// GetVisible returns an active experience the viewer may see: public ones,
// their own, and friends_only ones from authors they follow.
func (r *repository) GetVisible(ctx context.Context, id, viewerID string) (*Row, error) {
	query := rowSelect + `
		WHERE e.id = $2
		  AND e.status = 'active'
		  AND u.deleted_at IS NULL
		  AND (
			e.visibility = 'public'
			OR e.user_id::text = $1::text
			OR EXISTS (
				SELECT 1 FROM follows f
				WHERE f.follower_id::text = $1::text AND f.following_id = e.user_id
			)
		  )`

	var row Row
	err := r.db.GetContext(ctx, &row, query, viewerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get experience: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get experience: %w", err)
	}
	return &row, nil
}

func (r *repository) ExistsActive(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM experiences WHERE id = $1 AND status = 'active')`, id)
	if err != nil {
		return false, fmt.Errorf("check experience: %w", err)
	}
	return exists, nil
}

func (r *repository) ListForModeration(
	ctx context.Context,
	status string,
	limit, offset int,
) ([]Row, int, error) {
	where := `
		WHERE ($2::text = '' OR e.status = $2::text)`

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM experiences e WHERE ($1::text = '' OR e.status = $1::text)`,
		status); err != nil {
		return nil, 0, fmt.Errorf("count experiences: %w", err)
	}

	query := rowSelect + where + `
		ORDER BY e.created_at DESC
		LIMIT $3 OFFSET $4`

	rows := []Row{}
	if err := r.db.SelectContext(ctx, &rows, query, "", status, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list experiences: %w", err)
	}

	return rows, total, nil
}

func (r *repository) Moderate(
	ctx context.Context,
	id, status string,
	reason *string,
	moderatorID string,
) error {
	query := `
		UPDATE experiences
		SET status = $2,
		    moderation_reason = $3,
		    moderated_by = $4,
		    moderated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, reason, moderatorID)
	if err != nil {
		return fmt.Errorf("moderate experience: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("moderate experience: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("moderate experience: %w", core.ErrNotFound)
	}
	return nil
}
