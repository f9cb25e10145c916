package domain

import "time"

// IssueStatus enumerates lifecycle states for maintenance issues.
type IssueStatus string

const (
	IssueStatusReported   IssueStatus = "Reported"
	IssueStatusAssigned   IssueStatus = "Assigned"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusResolved   IssueStatus = "Resolved"
	IssueStatusClosed     IssueStatus = "Closed"
)

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
)

// IssueVisibility controls who can see an issue in listings.
type IssueVisibility string

const (
	IssueVisibilityPublic  IssueVisibility = "public"
	IssueVisibilityPrivate IssueVisibility = "private"
)

// StatusChange is a single append-only status history entry.
type StatusChange struct {
	Status    IssueStatus `json:"status"`
	ChangedAt time.Time   `json:"changed_at"`
	ChangedBy string      `json:"changed_by"`
	Comment   string      `json:"comment,omitempty"`
}

// IssueComment is a single append-only comment entry.
type IssueComment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment records a handoff in the permanent assignment history.
type Assignment struct {
	Assignee   string    `json:"assignee"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`
}

// SLAInfo holds the resolution-time budget and its derived outcome.
type SLAInfo struct {
	TargetResolutionHours int        `json:"target_resolution_hours"`
	ActualResolutionHours *int       `json:"actual_resolution_hours,omitempty"`
	Compliant             bool       `json:"compliant"`
	BreachReason          string     `json:"breach_reason,omitempty"`
	Escalated             bool       `json:"escalated"`
	EscalatedAt           *time.Time `json:"escalated_at,omitempty"`
	EscalatedTo           *string    `json:"escalated_to,omitempty"`
}

// Issue is the aggregate for maintenance requests.
type Issue struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    IssuePriority
	Visibility  IssueVisibility
	Status      IssueStatus
	Hostel      string
	Block       string
	RoomNumber  string
	CreatedBy   string
	AssignedTo  *string
	AssignedAt  *time.Time

	StatusHistory     []StatusChange
	Comments          []IssueComment
	Upvotes           []string
	AssignmentHistory []Assignment
	Tags              []string
	Attachments       []string

	IsDuplicate bool
	DuplicateOf *string

	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
	SLA             SLAInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasUpvoted reports membership of a user in the upvote set.
func (i *Issue) HasUpvoted(userID string) bool {
	for _, id := range i.Upvotes {
		if id == userID {
			return true
		}
	}
	return false
}

// IsOpen reports whether the issue still counts against its SLA budget.
func (i *Issue) IsOpen() bool {
	return i.Status != IssueStatusResolved && i.Status != IssueStatusClosed
}
