package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/config"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// fakeIssueRepo mirrors the single-statement write semantics of the Postgres
// repository in memory.
type fakeIssueRepo struct {
	issues map[string]*domain.Issue
	seq    int
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: map[string]*domain.Issue{}}
}

func (f *fakeIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	f.seq++
	issue.ID = fmt.Sprintf("issue-%d", f.seq)
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = issue.StatusHistory[0].ChangedAt
	}
	issue.UpdatedAt = issue.CreatedAt
	clone := *issue
	f.issues[issue.ID] = &clone
	return nil
}

func (f *fakeIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *issue
	return &clone, nil
}

func (f *fakeIssueRepo) ListWithFilter(_ context.Context, _ repository.IssueFilter) ([]domain.Issue, error) {
	out := make([]domain.Issue, 0, len(f.issues))
	for _, issue := range f.issues {
		out = append(out, *issue)
	}
	return out, nil
}

func (f *fakeIssueRepo) FindRecentDuplicate(_ context.Context, title, hostel string, since time.Time) (*domain.Issue, error) {
	for _, issue := range f.issues {
		if issue.Title == title && issue.Hostel == hostel &&
			issue.Status != domain.IssueStatusClosed && !issue.CreatedAt.Before(since) {
			clone := *issue
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeIssueRepo) ApplyStatusChange(_ context.Context, id string, change repository.StatusChangeUpdate) (*domain.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	issue.Status = change.NewStatus
	issue.StatusHistory = append(issue.StatusHistory, change.Entry)
	if issue.FirstResponseAt == nil {
		issue.FirstResponseAt = change.FirstResponseAt
	}
	if issue.ResolvedAt == nil {
		issue.ResolvedAt = change.ResolvedAt
	}
	if issue.ClosedAt == nil {
		issue.ClosedAt = change.ClosedAt
	}
	if change.ActualResolutionHours != nil {
		issue.SLA.ActualResolutionHours = change.ActualResolutionHours
	}
	if change.Compliant != nil {
		issue.SLA.Compliant = *change.Compliant
	}
	if change.BreachReason != nil {
		issue.SLA.BreachReason = *change.BreachReason
	}
	clone := *issue
	return &clone, nil
}

func (f *fakeIssueRepo) AppendComment(_ context.Context, id string, comment domain.IssueComment) (*domain.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	issue.Comments = append(issue.Comments, comment)
	clone := *issue
	return &clone, nil
}

func (f *fakeIssueRepo) ToggleUpvote(_ context.Context, id, userID string) (*domain.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	for i, existing := range issue.Upvotes {
		if existing == userID {
			issue.Upvotes = append(issue.Upvotes[:i], issue.Upvotes[i+1:]...)
			clone := *issue
			return &clone, nil
		}
	}
	issue.Upvotes = append(issue.Upvotes, userID)
	clone := *issue
	return &clone, nil
}

func (f *fakeIssueRepo) RecordAssignment(_ context.Context, id string, entry domain.Assignment) (*domain.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	issue.AssignedTo = &entry.Assignee
	issue.AssignedAt = &entry.AssignedAt
	issue.Status = domain.IssueStatusAssigned
	issue.StatusHistory = append(issue.StatusHistory, domain.StatusChange{
		Status:    domain.IssueStatusAssigned,
		ChangedAt: entry.AssignedAt,
		ChangedBy: entry.AssignedBy,
	})
	issue.AssignmentHistory = append(issue.AssignmentHistory, entry)
	clone := *issue
	return &clone, nil
}

func (f *fakeIssueRepo) MarkEscalated(_ context.Context, id, escalateTo string, at time.Time) (*domain.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	issue.SLA.Escalated = true
	issue.SLA.EscalatedAt = &at
	issue.SLA.EscalatedTo = &escalateTo
	clone := *issue
	return &clone, nil
}

func (f *fakeIssueRepo) ListBreachCandidates(_ context.Context, now time.Time) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range f.issues {
		if !issue.IsOpen() {
			continue
		}
		elapsed := now.Sub(issue.CreatedAt).Hours()
		if elapsed > float64(issue.SLA.TargetResolutionHours)*0.75 {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (f *fakeIssueRepo) SummaryStats(_ context.Context, _, _ *time.Time) (*repository.IssueSummaryStats, error) {
	return &repository.IssueSummaryStats{}, nil
}

func (f *fakeIssueRepo) StatusBreakdown(_ context.Context, _, _ *time.Time) ([]repository.StatusCount, error) {
	return nil, nil
}

func newTestIssueService(repo *fakeIssueRepo, now time.Time) *IssueService {
	svc := NewIssueService(config.PolicyConfig{}, IssueDependencies{IssueRepo: repo})
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateIssue_SeedsHistoryAndTags(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestIssueService(newFakeIssueRepo(), now)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Water leakage in bathroom",
		Category: "plumbing",
		Hostel:   "North Wing",
	})
	require.NoError(t, err)

	require.Len(t, issue.StatusHistory, 1)
	assert.Equal(t, domain.IssueStatusReported, issue.StatusHistory[0].Status)
	assert.Equal(t, "user-1", issue.StatusHistory[0].ChangedBy)
	assert.Equal(t, []string{"plumbing"}, issue.Tags)
	assert.Equal(t, domain.IssuePriorityMedium, issue.Priority)
	assert.Equal(t, domain.IssueVisibilityPublic, issue.Visibility)
	assert.Equal(t, 48, issue.SLA.TargetResolutionHours)
	assert.True(t, issue.SLA.Compliant)
}

func TestCreateIssue_RejectsRecentDuplicate(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, now)

	first, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Broken window latch",
		Category: "carpentry",
		Hostel:   "North Wing",
	})
	require.NoError(t, err)

	_, err = svc.CreateIssue(context.Background(), "user-2", IssueCreateInput{
		Title:    "Broken window latch",
		Category: "carpentry",
		Hostel:   "North Wing",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "CONFLICT"))
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, first.ID, domainErr.Details["duplicate_of"])
}

func TestCreateIssue_DuplicateWindowExpires(t *testing.T) {
	repo := newFakeIssueRepo()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestIssueService(repo, created)

	_, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Broken window latch",
		Category: "carpentry",
		Hostel:   "North Wing",
	})
	require.NoError(t, err)

	// 25 hours later the same title is allowed again.
	svc.now = func() time.Time { return created.Add(25 * time.Hour) }
	_, err = svc.CreateIssue(context.Background(), "user-2", IssueCreateInput{
		Title:    "Broken window latch",
		Category: "carpentry",
		Hostel:   "North Wing",
	})
	assert.NoError(t, err)
}

func TestCreateIssue_DuplicateScopedToHostel(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestIssueService(newFakeIssueRepo(), now)

	_, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Broken window latch",
		Category: "carpentry",
		Hostel:   "North Wing",
	})
	require.NoError(t, err)

	_, err = svc.CreateIssue(context.Background(), "user-2", IssueCreateInput{
		Title:    "Broken window latch",
		Category: "carpentry",
		Hostel:   "South Wing",
	})
	assert.NoError(t, err)
}

func TestUpdateStatus_AppendsHistoryAndDerivesTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Fan not working in room 204",
		Category: "electrical",
	})
	require.NoError(t, err)

	firstResponse := created.Add(2 * time.Hour)
	svc.now = func() time.Time { return firstResponse }
	updated, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusInProgress, "staff-1", "on it")
	require.NoError(t, err)
	require.Len(t, updated.StatusHistory, 2)
	require.NotNil(t, updated.FirstResponseAt)
	assert.Equal(t, firstResponse, *updated.FirstResponseAt)
	assert.Equal(t, "on it", updated.StatusHistory[1].Comment)

	resolvedAt := created.Add(30 * time.Hour)
	svc.now = func() time.Time { return resolvedAt }
	updated, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusResolved, "staff-1", "")
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, resolvedAt, *updated.ResolvedAt)
	require.NotNil(t, updated.SLA.ActualResolutionHours)
	assert.Equal(t, 30, *updated.SLA.ActualResolutionHours)
	assert.True(t, updated.SLA.Compliant)
	assert.Len(t, updated.StatusHistory, 3)
}

func TestUpdateStatus_FirstResponseSetOnce(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Clogged drain",
		Category: "plumbing",
	})
	require.NoError(t, err)

	first := created.Add(1 * time.Hour)
	svc.now = func() time.Time { return first }
	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusInProgress, "staff-1", "")
	require.NoError(t, err)

	// Reopen and re-enter In Progress later; the original timestamp stays.
	svc.now = func() time.Time { return created.Add(5 * time.Hour) }
	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusReported, "staff-1", "")
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusInProgress, "staff-1", "")
	require.NoError(t, err)

	require.NotNil(t, updated.FirstResponseAt)
	assert.Equal(t, first, *updated.FirstResponseAt)
}

func TestUpdateStatus_BreachRecordedOnLateResolution(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "No hot water",
		Category: "plumbing",
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return created.Add(53 * time.Hour) }
	updated, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusResolved, "staff-1", "")
	require.NoError(t, err)

	assert.False(t, updated.SLA.Compliant)
	assert.Equal(t, "Exceeded target resolution time by 5 hours", updated.SLA.BreachReason)
}

func TestUpdateStatus_PermissiveByDefault(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Door hinge loose",
		Category: "carpentry",
	})
	require.NoError(t, err)

	// Reported -> Closed -> Reported: reopen workflows are allowed.
	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusClosed, "staff-1", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusReported, "staff-1", "reopening")
	assert.NoError(t, err)
}

func TestUpdateStatus_StrictPolicyRejectsInvalidTransition(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := NewIssueService(config.PolicyConfig{StrictTransitions: true}, IssueDependencies{IssueRepo: repo})
	svc.now = func() time.Time { return created }

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Door hinge loose",
		Category: "carpentry",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusClosed, "staff-1", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusReported, "staff-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestAddComment(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Leaking tap",
		Category: "plumbing",
	})
	require.NoError(t, err)

	updated, err := svc.AddComment(context.Background(), issue.ID, "user-2", "  same in my room  ")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "same in my room", updated.Comments[0].Text)
	assert.Equal(t, "user-2", updated.Comments[0].Author)

	_, err = svc.AddComment(context.Background(), issue.ID, "user-2", "   ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestToggleUpvote_Involution(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Flickering corridor light",
		Category: "electrical",
	})
	require.NoError(t, err)

	users := []string{"u1", "u2", "u3"}
	rapid.Check(t, func(t *rapid.T) {
		user := rapid.SampledFrom(users).Draw(t, "user")
		before, err := svc.GetIssue(context.Background(), issue.ID)
		if err != nil {
			t.Fatal(err)
		}
		had := before.HasUpvoted(user)

		after, err := svc.ToggleUpvote(context.Background(), issue.ID, user)
		if err != nil {
			t.Fatal(err)
		}
		if after.HasUpvoted(user) == had {
			t.Fatalf("toggle did not flip membership for %s", user)
		}
		// Other users are untouched.
		for _, other := range users {
			if other != user && after.HasUpvoted(other) != before.HasUpvoted(other) {
				t.Fatalf("toggle for %s affected %s", user, other)
			}
		}
	})
}

func TestAssign(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Cracked mirror",
		Category: "carpentry",
	})
	require.NoError(t, err)

	updated, err := svc.Assign(context.Background(), issue.ID, "tech-7", "warden-1")
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "tech-7", *updated.AssignedTo)
	assert.Equal(t, domain.IssueStatusAssigned, updated.Status)
	require.Len(t, updated.AssignmentHistory, 1)
	assert.Equal(t, "warden-1", updated.AssignmentHistory[0].AssignedBy)

	// Reassignment keeps the prior entry.
	updated, err = svc.Assign(context.Background(), issue.ID, "tech-9", "warden-1")
	require.NoError(t, err)
	assert.Len(t, updated.AssignmentHistory, 2)
	assert.Equal(t, "tech-9", *updated.AssignedTo)

	_, err = svc.Assign(context.Background(), issue.ID, "", "warden-1")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestEscalate(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Pest infestation",
		Category: "housekeeping",
	})
	require.NoError(t, err)

	updated, err := svc.Escalate(context.Background(), issue.ID, "chief-warden")
	require.NoError(t, err)
	assert.True(t, updated.SLA.Escalated)
	require.NotNil(t, updated.SLA.EscalatedTo)
	assert.Equal(t, "chief-warden", *updated.SLA.EscalatedTo)

	_, err = svc.Escalate(context.Background(), "missing", "chief-warden")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestListBreachCandidates(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	stale, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Water cooler broken",
		Category: "plumbing",
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return created.Add(40 * time.Hour) }
	fresh, err := svc.CreateIssue(context.Background(), "user-2", IssueCreateInput{
		Title:    "Window stuck",
		Category: "carpentry",
	})
	require.NoError(t, err)

	candidates, err := svc.ListBreachCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, stale.ID, candidates[0].ID)
	assert.NotEqual(t, fresh.ID, candidates[0].ID)
}

func TestSLAStateFor(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeIssueRepo()
	svc := newTestIssueService(repo, created)

	issue, err := svc.CreateIssue(context.Background(), "user-1", IssueCreateInput{
		Title:    "Geyser tripping",
		Category: "electrical",
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return created.Add(40 * time.Hour) }
	assert.Equal(t, SLABreachImminent, svc.SLAStateFor(issue))

	svc.now = func() time.Time { return created.Add(49 * time.Hour) }
	assert.Equal(t, SLABreached, svc.SLAStateFor(issue))
}
