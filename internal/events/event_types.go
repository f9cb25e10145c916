package events

import (
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueAssigned      EventType = "issue_assigned"
	EventIssueEscalated     EventType = "issue_escalated"
	EventIssueCommentAdded  EventType = "issue_comment_added"
	EventItemReported       EventType = "item_reported"
	EventItemMatched        EventType = "item_matched"
	EventItemClaimed        EventType = "item_claimed"
	EventItemResolved       EventType = "item_resolved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Title    string               `json:"title"`
	Category string               `json:"category"`
	Priority domain.IssuePriority `json:"priority"`
	Hostel   string               `json:"hostel,omitempty"`
	Tags     []string             `json:"tags,omitempty"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
	Comment   string             `json:"comment,omitempty"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	Assignee   string `json:"assignee"`
	AssignedBy string `json:"assigned_by"`
}

// IssueEscalatedPayload payload.
type IssueEscalatedPayload struct {
	EscalatedTo string `json:"escalated_to"`
}

// IssueCommentAddedPayload payload.
type IssueCommentAddedPayload struct {
	Author      string `json:"author"`
	TextPreview string `json:"text_preview"`
}

// ItemReportedPayload payload.
type ItemReportedPayload struct {
	ItemName   string              `json:"item_name"`
	ItemType   domain.ItemType     `json:"item_type"`
	Category   domain.ItemCategory `json:"category"`
	MatchCount int                 `json:"match_count"`
}

// ItemClaimedPayload payload.
type ItemClaimedPayload struct {
	ClaimedBy string `json:"claimed_by"`
}
