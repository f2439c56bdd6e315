// AngelaMos | 2026
// entity.go

package bookmark

import (
	"time"

	"github.com/lib/pq"
)

type Bookmark struct {
	ID           string    `db:"id"            json:"id"`
	UserID       string    `db:"user_id"       json:"user_id"`
	ExperienceID string    `db:"experience_id" json:"experience_id"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// Entry is a bookmark joined with a summary of the bookmarked experience.
type Entry struct {
	Bookmark

	PlaceName  string         `db:"place_name"  json:"place_name"`
	PriceRange string         `db:"price_range" json:"price_range"`
	Tags       pq.StringArray `db:"tags"        json:"tags"`
}
