package dto

import (
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// CreateAnnouncementRequest payload.
type CreateAnnouncementRequest struct {
	Title          string                      `json:"title" validate:"required,min=3,max=200"`
	Body           string                      `json:"body" validate:"required"`
	Category       string                      `json:"category"`
	Priority       domain.IssuePriority        `json:"priority" validate:"omitempty,oneof=low medium high"`
	TargetAudience domain.AnnouncementAudience `json:"target_audience" validate:"omitempty,oneof=all students staff"`
}

// AnnouncementResponse representation.
type AnnouncementResponse struct {
	ID             string                      `json:"id"`
	Title          string                      `json:"title"`
	Body           string                      `json:"body"`
	Category       string                      `json:"category,omitempty"`
	Priority       domain.IssuePriority        `json:"priority"`
	TargetAudience domain.AnnouncementAudience `json:"target_audience"`
	CreatedBy      string                      `json:"created_by"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// NewAnnouncementResponse maps a domain announcement.
func NewAnnouncementResponse(a *domain.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:             a.ID,
		Title:          a.Title,
		Body:           a.Body,
		Category:       a.Category,
		Priority:       a.Priority,
		TargetAudience: a.TargetAudience,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}
