// AngelaMos | 2026
// dto.go

package notification

import (
	"encoding/json"
)

type CreateNotificationRequest struct {
	UserID  string          `json:"user_id" validate:"required,uuid"`
	Type    string          `json:"type"    validate:"required,max=50"`
	Payload json.RawMessage `json:"payload"`
}

// MarkReadRequest marks the listed ids read; an omitted list means all.
type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"omitempty,max=100,dive,uuid"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

type MarkReadResponse struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}
