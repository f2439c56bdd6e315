// AngelaMos | 2026
// moderation.go

package admin

import (
	"context"
	"strings"
	"time"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/experience"
)

const (
	ActionDeactivate = "deactivate"
	ActionReactivate = "reactivate"
)

// ExperienceModerator is satisfied by the experience repository.
type ExperienceModerator interface {
	ListForModeration(ctx context.Context, status string, limit, offset int) ([]experience.Row, int, error)
	Moderate(ctx context.Context, id, status string, reason *string, moderatorID string) error
}

type ModerateRequest struct {
	Action string  `json:"action" validate:"required,oneof=deactivate reactivate"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type ModeratedExperience struct {
	experience.ExperienceResponse

	ModerationReason *string    `json:"moderation_reason"`
	ModeratedBy      *string    `json:"moderated_by"`
	ModeratedAt      *time.Time `json:"moderated_at"`
}

type ModerationService struct {
	repo ExperienceModerator
	now  func() time.Time
}

func NewModerationService(repo ExperienceModerator) *ModerationService {
	return &ModerationService{repo: repo, now: time.Now}
}

// List returns experiences of any visibility, optionally narrowed to one
// status, newest first.
func (s *ModerationService) List(
	ctx context.Context,
	status string,
	page core.PageParams,
) ([]ModeratedExperience, int, error) {
	if status != "" && status != experience.StatusActive && status != experience.StatusInactive {
		return nil, 0, core.Invalid("status must be one of: %s %s",
			experience.StatusActive, experience.StatusInactive)
	}

	rows, total, err := s.repo.ListForModeration(ctx, status, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	out := make([]ModeratedExperience, 0, len(rows))
	for i := range rows {
		out = append(out, ModeratedExperience{
			ExperienceResponse: experience.ToResponse(&rows[i], now),
			ModerationReason:   rows[i].ModerationReason,
			ModeratedBy:        rows[i].ModeratedBy,
			ModeratedAt:        rows[i].ModeratedAt,
		})
	}
	return out, total, nil
}

// Transition applies a moderation action. Deactivation records the reason
// shown to the author; reactivation clears it.
func (s *ModerationService) Transition(
	ctx context.Context,
	moderatorID, experienceID string,
	req ModerateRequest,
) error {
	var (
		status string
		reason *string
	)

	switch req.Action {
	case ActionDeactivate:
		if req.Reason == nil || strings.TrimSpace(*req.Reason) == "" {
			return core.Invalid("reason is required")
		}
		trimmed := strings.TrimSpace(*req.Reason)
		status, reason = experience.StatusInactive, &trimmed
	case ActionReactivate:
		status = experience.StatusActive
	default:
		return core.Invalid("action must be one of: %s %s", ActionDeactivate, ActionReactivate)
	}

	if !core.IsUUID(experienceID) {
		return core.NotFoundError("experience")
	}

	return s.repo.Moderate(ctx, experienceID, status, reason, moderatorID)
}
