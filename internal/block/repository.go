// AngelaMos | 2026
// repository.go

package block

import (
	"context"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, blockerID, blockedID string) error
	Delete(ctx context.Context, blockerID, blockedID string) error
	Exists(ctx context.Context, blockerID, blockedID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, blockerID, blockedID string) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, blockerID, blockedID); err != nil {
		return core.MapWriteError("create block", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, blockerID, blockedID string) error {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`

	if _, err := r.db.ExecContext(ctx, query, blockerID, blockedID); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

func (r *repository) Exists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM blocks
		WHERE blocker_id::text = $1 AND blocked_id::text = $2
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, blockerID, blockedID); err != nil {
		return false, fmt.Errorf("check block: %w", err)
	}
	return exists, nil
}
