package dto

import (
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string                 `json:"title" validate:"required,min=3,max=200"`
	Description string                 `json:"description" validate:"max=2000"`
	Category    string                 `json:"category" validate:"required"`
	Priority    domain.IssuePriority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Visibility  domain.IssueVisibility `json:"visibility" validate:"omitempty,oneof=public private"`
	Hostel      string                 `json:"hostel"`
	Block       string                 `json:"block"`
	RoomNumber  string                 `json:"room_number"`
}

// UpdateIssueStatusRequest payload.
type UpdateIssueStatusRequest struct {
	Status  domain.IssueStatus `json:"status" validate:"required,oneof=Reported Assigned 'In Progress' Resolved Closed"`
	Comment string             `json:"comment"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// AssignIssueRequest payload.
type AssignIssueRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// EscalateIssueRequest payload.
type EscalateIssueRequest struct {
	EscalateTo string `json:"escalate_to" validate:"required"`
}

// SLAResponse carries stored SLA fields plus the derived live state.
type SLAResponse struct {
	TargetResolutionHours int        `json:"target_resolution_hours"`
	ActualResolutionHours *int       `json:"actual_resolution_hours,omitempty"`
	Compliant             bool       `json:"compliant"`
	BreachReason          string     `json:"breach_reason,omitempty"`
	Escalated             bool       `json:"escalated"`
	EscalatedAt           *time.Time `json:"escalated_at,omitempty"`
	EscalatedTo           *string    `json:"escalated_to,omitempty"`
	State                 string     `json:"state,omitempty"`
}

// IssueResponse is the full issue representation.
type IssueResponse struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description,omitempty"`
	Category          string                 `json:"category"`
	Priority          domain.IssuePriority   `json:"priority"`
	Visibility        domain.IssueVisibility `json:"visibility"`
	Status            domain.IssueStatus     `json:"status"`
	Hostel            string                 `json:"hostel,omitempty"`
	Block             string                 `json:"block,omitempty"`
	RoomNumber        string                 `json:"room_number,omitempty"`
	CreatedBy         string                 `json:"created_by"`
	AssignedTo        *string                `json:"assigned_to,omitempty"`
	AssignedAt        *time.Time             `json:"assigned_at,omitempty"`
	Tags              []string               `json:"tags"`
	Upvotes           []string               `json:"upvotes"`
	StatusHistory     []domain.StatusChange  `json:"status_history"`
	Comments          []domain.IssueComment  `json:"comments"`
	AssignmentHistory []domain.Assignment    `json:"assignment_history"`
	IsDuplicate       bool                   `json:"is_duplicate"`
	DuplicateOf       *string                `json:"duplicate_of,omitempty"`
	FirstResponseAt   *time.Time             `json:"first_response_at,omitempty"`
	ResolvedAt        *time.Time             `json:"resolved_at,omitempty"`
	ClosedAt          *time.Time             `json:"closed_at,omitempty"`
	SLA               SLAResponse            `json:"sla"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// NewIssueResponse maps a domain issue and its derived SLA state.
func NewIssueResponse(issue *domain.Issue, slaState string) IssueResponse {
	return IssueResponse{
		ID:                issue.ID,
		Title:             issue.Title,
		Description:       issue.Description,
		Category:          issue.Category,
		Priority:          issue.Priority,
		Visibility:        issue.Visibility,
		Status:            issue.Status,
		Hostel:            issue.Hostel,
		Block:             issue.Block,
		RoomNumber:        issue.RoomNumber,
		CreatedBy:         issue.CreatedBy,
		AssignedTo:        issue.AssignedTo,
		AssignedAt:        issue.AssignedAt,
		Tags:              issue.Tags,
		Upvotes:           issue.Upvotes,
		StatusHistory:     issue.StatusHistory,
		Comments:          issue.Comments,
		AssignmentHistory: issue.AssignmentHistory,
		IsDuplicate:       issue.IsDuplicate,
		DuplicateOf:       issue.DuplicateOf,
		FirstResponseAt:   issue.FirstResponseAt,
		ResolvedAt:        issue.ResolvedAt,
		ClosedAt:          issue.ClosedAt,
		SLA: SLAResponse{
			TargetResolutionHours: issue.SLA.TargetResolutionHours,
			ActualResolutionHours: issue.SLA.ActualResolutionHours,
			Compliant:             issue.SLA.Compliant,
			BreachReason:          issue.SLA.BreachReason,
			Escalated:             issue.SLA.Escalated,
			EscalatedAt:           issue.SLA.EscalatedAt,
			EscalatedTo:           issue.SLA.EscalatedTo,
			State:                 slaState,
		},
		CreatedAt: issue.CreatedAt,
		UpdatedAt: issue.UpdatedAt,
	}
}
