// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]Notification, error)
	Create(ctx context.Context, n *Notification) error
	// MarkRead only touches rows owned by userID. A nil ids marks all.
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]Notification, error) {
	query := `
		SELECT id, user_id, actor_id, type, payload, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	list := []Notification{}
	if err := r.db.SelectContext(ctx, &list, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, read, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.UserID,
		n.ActorID,
		n.Type,
		n.Payload,
	).Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return core.MapWriteError("create notification", err)
	}
	return nil
}

func (r *repository) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE user_id = $1 AND NOT read`
	args := []any{userID}

	if ids != nil {
		query += ` AND id = ANY($2::uuid[])`
		args = append(args, pq.Array(ids))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}
