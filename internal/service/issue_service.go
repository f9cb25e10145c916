package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/config"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/events"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// IssueService coordinates the issue lifecycle: creation with duplicate
// suppression and auto-tagging, status transitions with derived timestamps,
// the comment/upvote ledger, assignment and escalation.
type IssueService struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	policy     config.PolicyConfig
	now        func() time.Time
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	Dispatcher events.Dispatcher
}

// NewIssueService constructs the service.
func NewIssueService(policy config.PolicyConfig, deps IssueDependencies) *IssueService {
	if policy.TargetResolutionHours <= 0 {
		policy.TargetResolutionHours = 48
	}
	if policy.DuplicateWindowHours <= 0 {
		policy.DuplicateWindowHours = 24
	}
	return &IssueService{
		issues:     deps.IssueRepo,
		dispatcher: deps.Dispatcher,
		policy:     policy,
		now:        time.Now,
	}
}

// IssueCreateInput describes issue creation payload.
type IssueCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.IssuePriority
	Visibility  domain.IssueVisibility
	Hostel      string
	Block       string
	RoomNumber  string
}

// CreateIssue runs the duplicate check and auto-tagger, then persists the
// issue with its seeded status history. A likely duplicate refuses creation
// with a conflict carrying the existing issue's identity; the caller decides
// whether to proceed anyway.
func (s *IssueService) CreateIssue(ctx context.Context, actorID string, input IssueCreateInput) (*domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Category == "" {
		return nil, apperrors.NewValidationError("title and category required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.IssuePriorityMedium
	}
	if input.Visibility == "" {
		input.Visibility = domain.IssueVisibilityPublic
	}

	now := s.now()
	since := now.Add(-time.Duration(s.policy.DuplicateWindowHours) * time.Hour)
	existing, err := s.issues.FindRecentDuplicate(ctx, title, input.Hostel, since)
	if err == nil && existing != nil {
		return nil, apperrors.NewConflict(
			"a similar issue was recently reported; it might be a duplicate",
			map[string]any{"duplicate_of": existing.ID},
		)
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	issue := &domain.Issue{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Visibility:  input.Visibility,
		Status:      domain.IssueStatusReported,
		Hostel:      input.Hostel,
		Block:       input.Block,
		RoomNumber:  input.RoomNumber,
		CreatedBy:   actorID,
		Tags:        AutoTags(title),
		StatusHistory: []domain.StatusChange{{
			Status:    domain.IssueStatusReported,
			ChangedAt: now,
			ChangedBy: actorID,
		}},
		SLA: domain.SLAInfo{
			TargetResolutionHours: s.policy.TargetResolutionHours,
			Compliant:             true,
		},
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueCreated,
		EntityID: issue.ID,
		ActorID:  actorID,
		Payload: events.IssueCreatedPayload{
			Title:    issue.Title,
			Category: issue.Category,
			Priority: issue.Priority,
			Hostel:   issue.Hostel,
			Tags:     issue.Tags,
		},
	})
	return issue, nil
}

// UpdateStatus appends a history entry, updates the status and derives the
// set-once lifecycle timestamps. Any status may follow any other unless the
// strict-transition policy is enabled.
func (s *IssueService) UpdateStatus(ctx context.Context, issueID string, newStatus domain.IssueStatus, actorID, comment string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}

	if s.policy.StrictTransitions && !isValidTransition(issue.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": issue.Status,
			"to":   newStatus,
		})
	}

	oldStatus := issue.Status
	change := buildStatusChange(issue, newStatus, actorID, comment, s.now())
	updated, err := s.issues.ApplyStatusChange(ctx, issueID, change)
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueStatusChanged,
		EntityID: updated.ID,
		ActorID:  actorID,
		Payload: events.IssueStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return updated, nil
}

// buildStatusChange derives the atomic update for a status transition.
// firstResponseAt is only produced on the first transition into In Progress;
// resolvedAt carries the SLA resolution outcome with it.
func buildStatusChange(issue *domain.Issue, newStatus domain.IssueStatus, actorID, comment string, now time.Time) repository.StatusChangeUpdate {
	change := repository.StatusChangeUpdate{
		NewStatus: newStatus,
		Entry: domain.StatusChange{
			Status:    newStatus,
			ChangedAt: now,
			ChangedBy: actorID,
			Comment:   comment,
		},
	}
	switch newStatus {
	case domain.IssueStatusInProgress:
		if issue.FirstResponseAt == nil {
			change.FirstResponseAt = &now
		}
	case domain.IssueStatusResolved:
		if issue.ResolvedAt == nil {
			change.ResolvedAt = &now
			outcome := EvaluateResolution(issue.CreatedAt, now, issue.SLA.TargetResolutionHours)
			change.ActualResolutionHours = &outcome.ActualHours
			change.Compliant = &outcome.Compliant
			if outcome.BreachReason != "" {
				change.BreachReason = &outcome.BreachReason
			}
		}
	case domain.IssueStatusClosed:
		if issue.ClosedAt == nil {
			change.ClosedAt = &now
		}
	}
	return change
}

// AddComment appends to the issue's append-only comment ledger.
func (s *IssueService) AddComment(ctx context.Context, issueID, authorID, text string) (*domain.Issue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	updated, err := s.issues.AppendComment(ctx, issueID, domain.IssueComment{
		Author:    authorID,
		Text:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueCommentAdded,
		EntityID: updated.ID,
		ActorID:  authorID,
		Payload: events.IssueCommentAddedPayload{
			Author:      authorID,
			TextPreview: textPreview(text, 120),
		},
	})
	return updated, nil
}

// ToggleUpvote flips the user's membership in the upvote set. The toggle is
// atomic at the store layer, so concurrent toggles never lose an update.
func (s *IssueService) ToggleUpvote(ctx context.Context, issueID, userID string) (*domain.Issue, error) {
	updated, err := s.issues.ToggleUpvote(ctx, issueID, userID)
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}
	return updated, nil
}

// Assign sets the assignee, moves the issue to Assigned, and appends to the
// permanent assignment history.
func (s *IssueService) Assign(ctx context.Context, issueID, assigneeID, actorID string) (*domain.Issue, error) {
	if assigneeID == "" {
		return nil, apperrors.NewValidationError("assignee required", nil)
	}
	updated, err := s.issues.RecordAssignment(ctx, issueID, domain.Assignment{
		Assignee:   assigneeID,
		AssignedAt: s.now(),
		AssignedBy: actorID,
	})
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueAssigned,
		EntityID: updated.ID,
		ActorID:  actorID,
		Payload: events.IssueAssignedPayload{
			Assignee:   assigneeID,
			AssignedBy: actorID,
		},
	})
	return updated, nil
}

// Escalate marks the issue escalated to another responsible party. It is an
// explicit operation, never triggered by the evaluator; an external
// scheduler is expected to drive it from ListBreachCandidates.
func (s *IssueService) Escalate(ctx context.Context, issueID, escalateTo string) (*domain.Issue, error) {
	if escalateTo == "" {
		return nil, apperrors.NewValidationError("escalation target required", nil)
	}
	updated, err := s.issues.MarkEscalated(ctx, issueID, escalateTo, s.now())
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueEscalated,
		EntityID: updated.ID,
		Payload:  events.IssueEscalatedPayload{EscalatedTo: escalateTo},
	})
	return updated, nil
}

// GetIssue fetches a single issue.
func (s *IssueService) GetIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, s.mapIssueErr(err, issueID)
	}
	return issue, nil
}

// ListIssues returns issues matching the filter. Visibility scoping is the
// caller's concern and arrives pre-applied on the filter.
func (s *IssueService) ListIssues(ctx context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	issues, err := s.issues.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// ListBreachCandidates returns open issues past 75% of their SLA budget.
func (s *IssueService) ListBreachCandidates(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.issues.ListBreachCandidates(ctx, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// SLAStateFor derives the live SLA state for presentation.
func (s *IssueService) SLAStateFor(issue *domain.Issue) SLAState {
	return EvaluateSLA(s.now(), issue.CreatedAt, issue.SLA.TargetResolutionHours, issue.Status)
}

func (s *IssueService) mapIssueErr(err error, issueID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
	}
	return apperrors.MapError(err)
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}

// allowedTransitions is the optional strict policy graph. It is off by
// default: the permissive any-to-any behavior supports reopen workflows.
var allowedTransitions = map[domain.IssueStatus][]domain.IssueStatus{
	domain.IssueStatusReported:   {domain.IssueStatusAssigned, domain.IssueStatusInProgress, domain.IssueStatusClosed},
	domain.IssueStatusAssigned:   {domain.IssueStatusInProgress, domain.IssueStatusResolved, domain.IssueStatusClosed},
	domain.IssueStatusInProgress: {domain.IssueStatusResolved, domain.IssueStatusClosed},
	domain.IssueStatusResolved:   {domain.IssueStatusClosed, domain.IssueStatusInProgress},
	domain.IssueStatusClosed:     {},
}

func isValidTransition(current, next domain.IssueStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
