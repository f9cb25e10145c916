package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/config"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// fakeItemRepo mirrors the conditional-update semantics of the Postgres
// repository in memory.
type fakeItemRepo struct {
	items map[string]*domain.LostItem
	seq   int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*domain.LostItem{}}
}

func (f *fakeItemRepo) Create(_ context.Context, item *domain.LostItem) error {
	f.seq++
	item.ID = fmt.Sprintf("item-%d", f.seq)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	}
	item.UpdatedAt = item.CreatedAt
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*domain.LostItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (f *fakeItemRepo) ListWithFilter(_ context.Context, _ repository.ItemFilter) ([]domain.LostItem, error) {
	out := make([]domain.LostItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeItemRepo) FindCandidates(_ context.Context, item *domain.LostItem, limit int) ([]domain.LostItem, error) {
	var out []domain.LostItem
	for _, candidate := range f.items {
		if candidate.ID == item.ID {
			continue
		}
		if candidate.ItemType != item.ItemType.Opposite() || candidate.Category != item.Category {
			continue
		}
		if candidate.Status != domain.ItemStatusReported {
			continue
		}
		if candidate.Visibility == domain.ItemVisibilityPrivate {
			continue
		}
		out = append(out, *candidate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeItemRepo) SetPotentialMatches(_ context.Context, id string, matches []domain.PotentialMatch) error {
	item, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	item.PotentialMatches = matches
	return nil
}

func (f *fakeItemRepo) Claim(_ context.Context, id, userID, description string, at time.Time) (*domain.LostItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if item.Status != domain.ItemStatusReported {
		return nil, repository.ErrClaimConflict
	}
	item.Status = domain.ItemStatusClaimed
	item.ClaimedBy = &userID
	item.ClaimedAt = &at
	item.ClaimDescription = description
	clone := *item
	return &clone, nil
}

func (f *fakeItemRepo) Resolve(_ context.Context, id string) (*domain.LostItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	item.Status = domain.ItemStatusResolved
	clone := *item
	return &clone, nil
}

func (f *fakeItemRepo) Unclaim(_ context.Context, id string) (*domain.LostItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	item.Status = domain.ItemStatusUnclaimed
	item.ClaimedBy = nil
	item.ClaimedAt = nil
	item.ClaimDescription = ""
	clone := *item
	return &clone, nil
}

func (f *fakeItemRepo) Count(_ context.Context, _, _ *time.Time) (int64, error) {
	return int64(len(f.items)), nil
}

func newTestItemService(repo *fakeItemRepo, now time.Time) *LostItemService {
	svc := NewLostItemService(config.PolicyConfig{}, LostItemDependencies{
		ItemRepo: repo,
		Matcher:  NewMatchEngine(repo),
	})
	svc.now = func() time.Time { return now }
	return svc
}

func validReport(itemType domain.ItemType) ItemReportInput {
	return ItemReportInput{
		ItemName:     "Black Sony headphones",
		Description:  "Over-ear, scratched on the left cup",
		ItemType:     itemType,
		Category:     domain.ItemCategoryElectronics,
		Location:     domain.ItemLocation{Building: "North Wing", Area: "mess hall"},
		LastSeenAt:   time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC),
		Color:        "black",
		Brand:        "Sony",
		ContactPhone: "9876543210",
		ContactEmail: "owner@example.com",
	}
}

func TestReportItem_DefaultsAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	input := validReport(domain.ItemTypeLost)
	input.Category = ""
	input.Visibility = ""

	item, err := svc.ReportItem(context.Background(), "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, domain.ItemCategoryOther, item.Category)
	assert.Equal(t, domain.ItemVisibilityPublic, item.Visibility)
	assert.Equal(t, domain.ItemStatusReported, item.Status)
	assert.Equal(t, now.AddDate(0, 0, 30), item.ExpiresAt)
	assert.Empty(t, item.PotentialMatches)
}

func TestReportItem_RejectsUnknownType(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	input := validReport("misplaced")
	_, err := svc.ReportItem(context.Background(), "user-1", input)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestReportItem_DiscoversOppositeTypeMatches(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()
	svc := newTestItemService(repo, now)

	lost, err := svc.ReportItem(context.Background(), "user-1", validReport(domain.ItemTypeLost))
	require.NoError(t, err)

	found, err := svc.ReportItem(context.Background(), "user-2", validReport(domain.ItemTypeFound))
	require.NoError(t, err)

	require.Len(t, found.PotentialMatches, 1)
	assert.Equal(t, lost.ID, found.PotentialMatches[0].MatchedWith)
	// Category 40 + color 20 + brand 15 + area 10.
	assert.Equal(t, 85, found.PotentialMatches[0].MatchScore)
}

func TestReportItem_SameTypeNeverMatches(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	_, err := svc.ReportItem(context.Background(), "user-1", validReport(domain.ItemTypeLost))
	require.NoError(t, err)

	second, err := svc.ReportItem(context.Background(), "user-2", validReport(domain.ItemTypeLost))
	require.NoError(t, err)
	assert.Empty(t, second.PotentialMatches)
}

func TestReportItem_CandidateLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	for i := 0; i < 7; i++ {
		_, err := svc.ReportItem(context.Background(), fmt.Sprintf("user-%d", i), validReport(domain.ItemTypeLost))
		require.NoError(t, err)
	}

	found, err := svc.ReportItem(context.Background(), "finder", validReport(domain.ItemTypeFound))
	require.NoError(t, err)
	assert.Len(t, found.PotentialMatches, 5)
}

func TestClaim_TransitionsReportedToClaimed(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	item, err := svc.ReportItem(context.Background(), "finder", validReport(domain.ItemTypeFound))
	require.NoError(t, err)

	claimed, err := svc.Claim(context.Background(), item.ID, "owner", "it has my initials scratched inside")
	require.NoError(t, err)

	assert.Equal(t, domain.ItemStatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, "owner", *claimed.ClaimedBy)
	require.NotNil(t, claimed.ClaimedAt)
	assert.Equal(t, now, *claimed.ClaimedAt)
}

func TestClaim_ConflictsWhenNotReported(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	item, err := svc.ReportItem(context.Background(), "finder", validReport(domain.ItemTypeFound))
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), item.ID, "owner", "it is mine")
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), item.ID, "impostor", "no, it is mine")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	_, err = svc.Claim(context.Background(), "missing", "owner", "anything at all")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestResolve_Unguarded(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	item, err := svc.ReportItem(context.Background(), "finder", validReport(domain.ItemTypeFound))
	require.NoError(t, err)

	// Resolving straight from reported is allowed.
	resolved, err := svc.Resolve(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusResolved, resolved.Status)

	// And again from resolved.
	resolved, err = svc.Resolve(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusResolved, resolved.Status)
}

func TestUnclaim_ClearsClaimFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestItemService(newFakeItemRepo(), now)

	item, err := svc.ReportItem(context.Background(), "finder", validReport(domain.ItemTypeFound))
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), item.ID, "owner", "blue sticker on the case")
	require.NoError(t, err)

	unclaimed, err := svc.Unclaim(context.Background(), item.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.ItemStatusUnclaimed, unclaimed.Status)
	assert.Nil(t, unclaimed.ClaimedBy)
	assert.Nil(t, unclaimed.ClaimedAt)
	assert.Empty(t, unclaimed.ClaimDescription)
}

func TestGetMatches_RecomputesWithoutStoring(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()
	svc := newTestItemService(repo, now)

	lost, err := svc.ReportItem(context.Background(), "user-1", validReport(domain.ItemTypeLost))
	require.NoError(t, err)

	// A found report arriving later is visible to a fresh matches query even
	// though it postdates the stored potentialMatches snapshot.
	found, err := svc.ReportItem(context.Background(), "user-2", validReport(domain.ItemTypeFound))
	require.NoError(t, err)

	matches, err := svc.GetMatches(context.Background(), lost.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, found.ID, matches[0].Item.ID)
	assert.Equal(t, 85, matches[0].Score)

	stored, err := svc.GetItem(context.Background(), lost.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PotentialMatches)
}
