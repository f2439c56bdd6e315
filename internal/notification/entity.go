// AngelaMos | 2026
// entity.go

package notification

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TypeFollow = "follow"
)

type Notification struct {
	ID        string         `db:"id"         json:"id"`
	UserID    string         `db:"user_id"    json:"user_id"`
	ActorID   *string        `db:"actor_id"   json:"actor_id"`
	Type      string         `db:"type"       json:"type"`
	Payload   types.JSONText `db:"payload"    json:"payload"`
	Read      bool           `db:"read"       json:"read"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
