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

// LostItemService owns the lost-and-found lifecycle: reporting with
// synchronous match discovery, and the claim/resolve/unclaim state machine.
type LostItemService struct {
	items      repository.LostItemRepository
	matcher    *MatchEngine
	dispatcher events.Dispatcher
	expiryDays int
	now        func() time.Time
}

// LostItemDependencies bundles collaborators for the lost-item service.
type LostItemDependencies struct {
	ItemRepo   repository.LostItemRepository
	Matcher    *MatchEngine
	Dispatcher events.Dispatcher
}

// NewLostItemService constructs the service.
func NewLostItemService(policy config.PolicyConfig, deps LostItemDependencies) *LostItemService {
	expiryDays := policy.ItemExpiryDays
	if expiryDays <= 0 {
		expiryDays = 30
	}
	return &LostItemService{
		items:      deps.ItemRepo,
		matcher:    deps.Matcher,
		dispatcher: deps.Dispatcher,
		expiryDays: expiryDays,
		now:        time.Now,
	}
}

// ItemReportInput describes a lost or found report payload.
type ItemReportInput struct {
	ItemName            string
	Description         string
	ItemType            domain.ItemType
	Category            domain.ItemCategory
	Location            domain.ItemLocation
	LastSeenAt          time.Time
	Color               string
	Size                string
	Brand               string
	IdentifyingFeatures string
	EstimatedValue      *float64
	Images              []string
	ContactPhone        string
	ContactEmail        string
	Visibility          domain.ItemVisibility
}

// MatchCandidate pairs a candidate item with its similarity score.
type MatchCandidate struct {
	Item  domain.LostItem
	Score int
}

// ReportItem persists a new record, then runs match discovery synchronously
// and writes the scored candidates onto the record. Matching never fails the
// report: a match-engine error leaves potentialMatches empty.
func (s *LostItemService) ReportItem(ctx context.Context, actorID string, input ItemReportInput) (*domain.LostItem, error) {
	if input.ItemType != domain.ItemTypeLost && input.ItemType != domain.ItemTypeFound {
		return nil, apperrors.NewValidationError("item_type must be lost or found", nil)
	}
	if input.Category == "" {
		input.Category = domain.ItemCategoryOther
	}
	if input.Visibility == "" {
		input.Visibility = domain.ItemVisibilityPublic
	}

	now := s.now()
	item := &domain.LostItem{
		ItemName:            strings.TrimSpace(input.ItemName),
		Description:         strings.TrimSpace(input.Description),
		ItemType:            input.ItemType,
		Category:            input.Category,
		Location:            input.Location,
		LastSeenAt:          input.LastSeenAt,
		Color:               input.Color,
		Size:                input.Size,
		Brand:               input.Brand,
		IdentifyingFeatures: input.IdentifyingFeatures,
		EstimatedValue:      input.EstimatedValue,
		Images:              input.Images,
		Status:              domain.ItemStatusReported,
		ReportedBy:          actorID,
		ContactPhone:        input.ContactPhone,
		ContactEmail:        input.ContactEmail,
		Visibility:          input.Visibility,
		ExpiresAt:           now.AddDate(0, 0, s.expiryDays),
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}

	candidates, err := s.matcher.FindCandidates(ctx, item)
	if err == nil && len(candidates) > 0 {
		matches := s.matcher.ScoreCandidates(item, candidates)
		if err := s.items.SetPotentialMatches(ctx, item.ID, matches); err == nil {
			item.PotentialMatches = matches
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventItemMatched,
			EntityID: item.ID,
			Payload: events.ItemReportedPayload{
				ItemName:   item.ItemName,
				ItemType:   item.ItemType,
				Category:   item.Category,
				MatchCount: len(matches),
			},
		})
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventItemReported,
		EntityID: item.ID,
		ActorID:  actorID,
		Payload: events.ItemReportedPayload{
			ItemName:   item.ItemName,
			ItemType:   item.ItemType,
			Category:   item.Category,
			MatchCount: len(item.PotentialMatches),
		},
	})
	return item, nil
}

// Claim transitions reported -> claimed. Claiming an item in any other state
// fails with a conflict.
func (s *LostItemService) Claim(ctx context.Context, itemID, claimantID, description string) (*domain.LostItem, error) {
	item, err := s.items.Claim(ctx, itemID, claimantID, strings.TrimSpace(description), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrClaimConflict) {
			return nil, apperrors.NewConflict("item already claimed or resolved", map[string]any{"item_id": itemID})
		}
		return nil, s.mapItemErr(err, itemID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventItemClaimed,
		EntityID: item.ID,
		ActorID:  claimantID,
		Payload:  events.ItemClaimedPayload{ClaimedBy: claimantID},
	})
	return item, nil
}

// Resolve marks the item resolved regardless of its current status. The
// unguarded transition is deliberate; see the lifecycle notes in DESIGN.md.
func (s *LostItemService) Resolve(ctx context.Context, itemID string) (*domain.LostItem, error) {
	item, err := s.items.Resolve(ctx, itemID)
	if err != nil {
		return nil, s.mapItemErr(err, itemID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventItemResolved,
		EntityID: item.ID,
	})
	return item, nil
}

// Unclaim clears the claim fields and marks the item unclaimed.
func (s *LostItemService) Unclaim(ctx context.Context, itemID string) (*domain.LostItem, error) {
	item, err := s.items.Unclaim(ctx, itemID)
	if err != nil {
		return nil, s.mapItemErr(err, itemID)
	}
	return item, nil
}

// GetItem fetches a single record.
func (s *LostItemService) GetItem(ctx context.Context, itemID string) (*domain.LostItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, s.mapItemErr(err, itemID)
	}
	return item, nil
}

// ListItems returns records matching the filter.
func (s *LostItemService) ListItems(ctx context.Context, filter repository.ItemFilter) ([]domain.LostItem, error) {
	items, err := s.items.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// GetMatches recomputes candidate discovery on demand for inspection. The
// stored potentialMatches list is left untouched.
func (s *LostItemService) GetMatches(ctx context.Context, itemID string) ([]MatchCandidate, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, s.mapItemErr(err, itemID)
	}
	candidates, err := s.matcher.FindCandidates(ctx, item)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := make([]MatchCandidate, 0, len(candidates))
	for i := range candidates {
		result = append(result, MatchCandidate{
			Item:  candidates[i],
			Score: MatchScore(item, &candidates[i]),
		})
	}
	return result, nil
}

func (s *LostItemService) mapItemErr(err error, itemID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("item", map[string]any{"item_id": itemID})
	}
	return apperrors.MapError(err)
}

func (s *LostItemService) publishEvent(ctx context.Context, event events.Event) {
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
