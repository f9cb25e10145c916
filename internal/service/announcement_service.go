package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// AnnouncementService manages facility-wide notices.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(announcements repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{announcements: announcements}
}

// AnnouncementCreateInput describes a new announcement.
type AnnouncementCreateInput struct {
	Title          string
	Body           string
	Category       string
	Priority       domain.IssuePriority
	TargetAudience domain.AnnouncementAudience
}

// Create posts a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, actorID string, input AnnouncementCreateInput) (*domain.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.IssuePriorityMedium
	}
	if input.TargetAudience == "" {
		input.TargetAudience = domain.AudienceAll
	}

	announcement := &domain.Announcement{
		Title:          title,
		Body:           strings.TrimSpace(input.Body),
		Category:       input.Category,
		Priority:       input.Priority,
		TargetAudience: input.TargetAudience,
		CreatedBy:      actorID,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, apperrors.MapError(err)
	}
	return announcement, nil
}

// List returns announcements matching the filter.
func (s *AnnouncementService) List(ctx context.Context, filter repository.AnnouncementFilter) ([]domain.Announcement, error) {
	announcements, err := s.announcements.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return announcements, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("announcement", map[string]any{"announcement_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
