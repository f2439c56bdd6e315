// AngelaMos | 2026
// entity.go

package experience

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	VisibilityPublic      = "public"
	VisibilityFriendsOnly = "friends_only"
)

type Experience struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	PlaceID          string         `db:"place_id"`
	PriceRange       string         `db:"price_range"`
	Tags             pq.StringArray `db:"tags"`
	BriefDescription *string        `db:"brief_description"`
	Images           pq.StringArray `db:"images"`
	VisitDate        *time.Time     `db:"visit_date"`
	Status           string         `db:"status"`
	ModerationReason *string        `db:"moderation_reason"`
	ModeratedBy      *string        `db:"moderated_by"`
	ModeratedAt      *time.Time     `db:"moderated_at"`
	Visibility       string         `db:"visibility"`
	CreatedAt        time.Time      `db:"created_at"`
}

// Row is an experience joined with its place, author and the viewer's
// bookmark state.
type Row struct {
	Experience

	PlaceName         string  `db:"place_name"`
	PlaceCity         string  `db:"place_city"`
	AuthorDisplayName string  `db:"author_display_name"`
	AuthorUsername    string  `db:"author_username"`
	AuthorAvatarURL   *string `db:"author_avatar_url"`
	Bookmarked        bool    `db:"bookmarked"`
}
