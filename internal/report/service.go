// AngelaMos | 2026
// service.go

package report

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/circlepicks/backend/internal/core"
)

var Reasons = []string{"spam", "inappropriate", "misleading", "other"}

type CreateReportRequest struct {
	ExperienceID string  `json:"experience_id" validate:"required,uuid"`
	Reason       string  `json:"reason"        validate:"required,oneof=spam inappropriate misleading other"`
	Description  *string `json:"description"   validate:"omitempty,max=1000"`
}

type ExperienceChecker interface {
	ExistsActive(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo        Repository
	experiences ExperienceChecker
}

func NewService(repo Repository, experiences ExperienceChecker) *Service {
	return &Service{repo: repo, experiences: experiences}
}

// Create files a report. Reporting the same experience twice succeeds
// without a second row.
func (s *Service) Create(ctx context.Context, reporterID string, req CreateReportRequest) error {
	if !slices.Contains(Reasons, req.Reason) {
		return core.Invalid("reason must be one of: %s", strings.Join(Reasons, " "))
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			req.Description = nil
		} else {
			req.Description = &d
		}
	}

	ok, err := s.experiences.ExistsActive(ctx, req.ExperienceID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NotFoundError("experience")
	}

	if err := s.repo.Create(ctx, reporterID, req); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return err
	}
	return nil
}
