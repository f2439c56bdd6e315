// AngelaMos | 2026
// stats.go

package admin

import (
	"context"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

// ContentStats summarizes what moderators care about at a glance.
type ContentStats struct {
	Users               int `db:"users"                json:"users"`
	Places              int `db:"places"               json:"places"`
	CustomTags          int `db:"custom_tags"          json:"custom_tags"`
	ActiveExperiences   int `db:"active_experiences"   json:"active_experiences"`
	InactiveExperiences int `db:"inactive_experiences" json:"inactive_experiences"`
	Reports             int `db:"reports"              json:"reports"`
	ReportsLastDay      int `db:"reports_last_day"     json:"reports_last_day"`
}

type StatsRepository interface {
	Content(ctx context.Context) (*ContentStats, error)
}

type statsRepository struct {
	db core.DBTX
}

func NewStatsRepository(db core.DBTX) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Content(ctx context.Context) (*ContentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL)             AS users,
			(SELECT COUNT(*) FROM places)                                    AS places,
			(SELECT COUNT(*) FROM tags WHERE NOT is_system)                  AS custom_tags,
			(SELECT COUNT(*) FROM experiences WHERE status = 'active')       AS active_experiences,
			(SELECT COUNT(*) FROM experiences WHERE status = 'inactive')     AS inactive_experiences,
			(SELECT COUNT(*) FROM reports)                                   AS reports,
			(SELECT COUNT(*) FROM reports
			  WHERE created_at > NOW() - INTERVAL '1 day')                   AS reports_last_day`

	var stats ContentStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("content stats: %w", err)
	}
	return &stats, nil
}
