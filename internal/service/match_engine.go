package service

import (
	"context"
	"strings"
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
)

// matchCandidateLimit caps candidate discovery per item.
const matchCandidateLimit = 5

// MatchScore computes the pairwise similarity of two lost-and-found items.
// The score is additive and capped at 100. Optional dimensions only count
// when both sides carry a value; location area also matches when both are
// absent.
func MatchScore(a, b *domain.LostItem) int {
	score := 0
	if a.Category == b.Category {
		score += 40
	}
	if a.Color != "" && b.Color != "" && strings.EqualFold(a.Color, b.Color) {
		score += 20
	}
	if a.Size != "" && b.Size != "" && a.Size == b.Size {
		score += 15
	}
	if a.Brand != "" && b.Brand != "" && strings.EqualFold(a.Brand, b.Brand) {
		score += 15
	}
	if a.Location.Area == b.Location.Area {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// MatchEngine discovers and scores candidate pairings for an item.
type MatchEngine struct {
	items repository.LostItemRepository
	now   func() time.Time
}

// NewMatchEngine constructs the engine.
func NewMatchEngine(items repository.LostItemRepository) *MatchEngine {
	return &MatchEngine{items: items, now: time.Now}
}

// FindCandidates returns up to five reported items of the opposite type in
// the same category, most recent first.
func (e *MatchEngine) FindCandidates(ctx context.Context, item *domain.LostItem) ([]domain.LostItem, error) {
	return e.items.FindCandidates(ctx, item, matchCandidateLimit)
}

// ScoreCandidates builds the potential-match entries for an item against the
// supplied candidates.
func (e *MatchEngine) ScoreCandidates(item *domain.LostItem, candidates []domain.LostItem) []domain.PotentialMatch {
	if len(candidates) == 0 {
		return nil
	}
	matchedAt := e.now()
	matches := make([]domain.PotentialMatch, 0, len(candidates))
	for i := range candidates {
		matches = append(matches, domain.PotentialMatch{
			MatchedWith: candidates[i].ID,
			MatchScore:  MatchScore(item, &candidates[i]),
			MatchedAt:   matchedAt,
		})
	}
	return matches
}
