package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// IssueFilter captures listing parameters.
type IssueFilter struct {
	Statuses   []domain.IssueStatus
	Priorities []domain.IssuePriority
	Category   *string
	Hostel     *string
	AssignedTo *string
	// VisibleTo scopes results to public issues plus the given user's own
	// private ones. Nil means no visibility scoping (staff view).
	VisibleTo   *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// StatusChangeUpdate describes the atomic write performed on a status
// transition: the new status, the history entry to append, and the derived
// timestamp/SLA fields. Timestamp pointers are applied set-once (COALESCE),
// so a concurrent or repeated transition never overwrites an earlier value.
type StatusChangeUpdate struct {
	NewStatus             domain.IssueStatus
	Entry                 domain.StatusChange
	FirstResponseAt       *time.Time
	ResolvedAt            *time.Time
	ClosedAt              *time.Time
	ActualResolutionHours *int
	Compliant             *bool
	BreachReason          *string
}

// StatusCount is one row of the issues-by-status breakdown.
type StatusCount struct {
	Status domain.IssueStatus `json:"status"`
	Count  int64              `json:"count"`
}

// IssueSummaryStats aggregates analytics counters over a date range.
type IssueSummaryStats struct {
	Total              int64
	Open               int64
	Resolved           int64
	AvgResolutionHours int64
	SLACompliant       int64
}

// IssueRepository encapsulates issue persistence. Mutating operations run as
// single SQL statements so concurrent writers cannot lose updates.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	FindRecentDuplicate(ctx context.Context, title, hostel string, since time.Time) (*domain.Issue, error)
	ApplyStatusChange(ctx context.Context, id string, change StatusChangeUpdate) (*domain.Issue, error)
	AppendComment(ctx context.Context, id string, comment domain.IssueComment) (*domain.Issue, error)
	ToggleUpvote(ctx context.Context, id, userID string) (*domain.Issue, error)
	RecordAssignment(ctx context.Context, id string, entry domain.Assignment) (*domain.Issue, error)
	MarkEscalated(ctx context.Context, id, escalateTo string, at time.Time) (*domain.Issue, error)
	ListBreachCandidates(ctx context.Context, now time.Time) ([]domain.Issue, error)
	SummaryStats(ctx context.Context, from, to *time.Time) (*IssueSummaryStats, error)
	StatusBreakdown(ctx context.Context, from, to *time.Time) ([]StatusCount, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, title, description, category, priority, visibility, status,
	hostel, block, room_number, created_by, assigned_to, assigned_at,
	status_history, comments, upvotes, assignment_history, tags, attachments,
	is_duplicate, duplicate_of, first_response_at, resolved_at, closed_at,
	target_resolution_hours, actual_resolution_hours, sla_compliant, sla_breach_reason,
	escalated, escalated_at, escalated_to, created_at, updated_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	history, err := json.Marshal(issue.StatusHistory)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO issues (title, description, category, priority, visibility, status,
            hostel, block, room_number, created_by, tags, status_history,
            is_duplicate, duplicate_of, target_resolution_hours)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::jsonb,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Priority,
		issue.Visibility,
		issue.Status,
		issue.Hostel,
		issue.Block,
		issue.RoomNumber,
		issue.CreatedBy,
		issue.Tags,
		string(history),
		issue.IsDuplicate,
		issue.DuplicateOf,
		issue.SLA.TargetResolutionHours,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id=$1`, issueColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *issueRepository) FindRecentDuplicate(ctx context.Context, title, hostel string, since time.Time) (*domain.Issue, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM issues
        WHERE title=$1 AND hostel=$2 AND status <> 'Closed' AND created_at > $3
        ORDER BY created_at DESC
        LIMIT 1`, issueColumns)
	return r.fetchSingle(ctx, query, title, hostel, since)
}

func (r *issueRepository) ApplyStatusChange(ctx context.Context, id string, change StatusChangeUpdate) (*domain.Issue, error) {
	entry, err := json.Marshal([]domain.StatusChange{change.Entry})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        UPDATE issues SET
            status = $2,
            status_history = status_history || $3::jsonb,
            first_response_at = COALESCE(first_response_at, $4),
            resolved_at = COALESCE(resolved_at, $5),
            closed_at = COALESCE(closed_at, $6),
            actual_resolution_hours = COALESCE($7, actual_resolution_hours),
            sla_compliant = COALESCE($8, sla_compliant),
            sla_breach_reason = COALESCE($9, sla_breach_reason),
            updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, issueColumns)
	return r.fetchSingle(ctx, query, id,
		change.NewStatus,
		string(entry),
		change.FirstResponseAt,
		change.ResolvedAt,
		change.ClosedAt,
		change.ActualResolutionHours,
		change.Compliant,
		change.BreachReason,
	)
}

func (r *issueRepository) AppendComment(ctx context.Context, id string, comment domain.IssueComment) (*domain.Issue, error) {
	entry, err := json.Marshal([]domain.IssueComment{comment})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        UPDATE issues SET comments = comments || $2::jsonb, updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, issueColumns)
	return r.fetchSingle(ctx, query, id, string(entry))
}

// ToggleUpvote flips membership of userID in the upvote set in a single
// statement, so two concurrent toggles serialize at the row level.
func (r *issueRepository) ToggleUpvote(ctx context.Context, id, userID string) (*domain.Issue, error) {
	query := fmt.Sprintf(`
        UPDATE issues SET
            upvotes = CASE
                WHEN $2 = ANY(upvotes) THEN array_remove(upvotes, $2)
                ELSE array_append(upvotes, $2)
            END,
            updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, issueColumns)
	return r.fetchSingle(ctx, query, id, userID)
}

func (r *issueRepository) RecordAssignment(ctx context.Context, id string, entry domain.Assignment) (*domain.Issue, error) {
	encoded, err := json.Marshal([]domain.Assignment{entry})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        UPDATE issues SET
            assigned_to = $2,
            assigned_at = $3,
            status = 'Assigned',
            status_history = status_history || $4::jsonb,
            assignment_history = assignment_history || $5::jsonb,
            updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, issueColumns)
	statusEntry, err := json.Marshal([]domain.StatusChange{{
		Status:    domain.IssueStatusAssigned,
		ChangedAt: entry.AssignedAt,
		ChangedBy: entry.AssignedBy,
	}})
	if err != nil {
		return nil, err
	}
	return r.fetchSingle(ctx, query, id, entry.Assignee, entry.AssignedAt, string(statusEntry), string(encoded))
}

func (r *issueRepository) MarkEscalated(ctx context.Context, id, escalateTo string, at time.Time) (*domain.Issue, error) {
	query := fmt.Sprintf(`
        UPDATE issues SET
            escalated = TRUE,
            escalated_at = $2,
            escalated_to = $3,
            updated_at = NOW()
        WHERE id=$1
        RETURNING %s`, issueColumns)
	return r.fetchSingle(ctx, query, id, at, escalateTo)
}

// ListBreachCandidates returns open issues past 75% of their SLA budget.
// This is the input set for an external escalation scheduler.
func (r *issueRepository) ListBreachCandidates(ctx context.Context, now time.Time) ([]domain.Issue, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM issues
        WHERE status NOT IN ('Resolved', 'Closed')
          AND EXTRACT(EPOCH FROM ($1::timestamptz - created_at)) / 3600.0 > target_resolution_hours * 0.75
        ORDER BY created_at ASC`, issueColumns)
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.VisibleTo != nil {
		args = append(args, *filter.VisibleTo)
		clauses = append(clauses, fmt.Sprintf("(visibility='public' OR created_by=$%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Hostel != nil {
		args = append(args, *filter.Hostel)
		clauses = append(clauses, fmt.Sprintf("hostel=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		issueColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) SummaryStats(ctx context.Context, from, to *time.Time) (*IssueSummaryStats, error) {
	clauses, args := dateRangeClauses(from, to)
	query := fmt.Sprintf(`
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status NOT IN ('Resolved','Closed')),
               COUNT(*) FILTER (WHERE status = 'Resolved'),
               COALESCE(ROUND(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600.0) FILTER (WHERE resolved_at IS NOT NULL)), 0),
               COUNT(*) FILTER (WHERE sla_compliant)
        FROM issues WHERE %s`, clauses)

	var stats IssueSummaryStats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Open,
		&stats.Resolved,
		&stats.AvgResolutionHours,
		&stats.SLACompliant,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *issueRepository) StatusBreakdown(ctx context.Context, from, to *time.Time) ([]StatusCount, error) {
	clauses, args := dateRangeClauses(from, to)
	query := fmt.Sprintf(`
        SELECT status, COUNT(*) FROM issues
        WHERE %s
        GROUP BY status
        ORDER BY status`, clauses)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func dateRangeClauses(from, to *time.Time) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *issueRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Issue, error) {
	return scanIssue(r.pool.QueryRow(ctx, query, args...))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*domain.Issue, error) {
	var issue domain.Issue
	var historyJSON, commentsJSON, assignmentsJSON []byte
	var breachReason, escalatedTo *string
	var actualHours *int
	if err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Priority,
		&issue.Visibility,
		&issue.Status,
		&issue.Hostel,
		&issue.Block,
		&issue.RoomNumber,
		&issue.CreatedBy,
		&issue.AssignedTo,
		&issue.AssignedAt,
		&historyJSON,
		&commentsJSON,
		&issue.Upvotes,
		&assignmentsJSON,
		&issue.Tags,
		&issue.Attachments,
		&issue.IsDuplicate,
		&issue.DuplicateOf,
		&issue.FirstResponseAt,
		&issue.ResolvedAt,
		&issue.ClosedAt,
		&issue.SLA.TargetResolutionHours,
		&actualHours,
		&issue.SLA.Compliant,
		&breachReason,
		&issue.SLA.Escalated,
		&issue.SLA.EscalatedAt,
		&escalatedTo,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(historyJSON, &issue.StatusHistory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(commentsJSON, &issue.Comments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(assignmentsJSON, &issue.AssignmentHistory); err != nil {
		return nil, err
	}
	issue.SLA.ActualResolutionHours = actualHours
	if breachReason != nil {
		issue.SLA.BreachReason = *breachReason
	}
	issue.SLA.EscalatedTo = escalatedTo
	return &issue, nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	return result, rows.Err()
}
