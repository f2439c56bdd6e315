// AngelaMos | 2026
// repository.go

package report

import (
	"context"

	"github.com/circlepicks/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, reporterID string, req CreateReportRequest) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, reporterID string, req CreateReportRequest) error {
	query := `
		INSERT INTO reports (reporter_id, experience_id, reason, description)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		reporterID,
		req.ExperienceID,
		req.Reason,
		req.Description,
	)
	return core.MapWriteError("create report", err)
}
