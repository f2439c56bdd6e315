// AngelaMos | 2026
// repository.go

package follow

import (
	"context"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	// Create reports whether a new row was written.
	Create(ctx context.Context, followerID, followingID string) (bool, error)
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, core.MapWriteError("create follow", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}
	return n > 0, nil
}

func (r *repository) Delete(ctx context.Context, followerID, followingID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	if _, err := r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *repository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}
