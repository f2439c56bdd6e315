// AngelaMos | 2026
// entity.go

package tag

import (
	"time"
)

type Tag struct {
	Slug        string    `db:"slug"         json:"slug"`
	DisplayName string    `db:"display_name" json:"display_name"`
	IsSystem    bool      `db:"is_system"    json:"is_system"`
	CreatedBy   *string   `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
