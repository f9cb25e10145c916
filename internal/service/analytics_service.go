package service

import (
	"context"
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// AnalyticsSummary aggregates facility-wide counters.
type AnalyticsSummary struct {
	TotalIssues        int64 `json:"total_issues"`
	OpenIssues         int64 `json:"open_issues"`
	ResolvedIssues     int64 `json:"resolved_issues"`
	TotalUsers         int64 `json:"total_users"`
	TotalLostItems     int64 `json:"total_lost_items"`
	AvgResolutionHours int64 `json:"avg_resolution_hours"`
	SLAComplianceRate  int64 `json:"sla_compliance_rate"`
}

// AnalyticsService computes reporting aggregates for staff dashboards.
type AnalyticsService struct {
	issues repository.IssueRepository
	items  repository.LostItemRepository
	users  repository.UserRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(issues repository.IssueRepository, items repository.LostItemRepository, users repository.UserRepository) *AnalyticsService {
	return &AnalyticsService{issues: issues, items: items, users: users}
}

// Summary returns counters for the given optional date range.
func (s *AnalyticsService) Summary(ctx context.Context, from, to *time.Time) (*AnalyticsSummary, error) {
	issueStats, err := s.issues.SummaryStats(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	itemCount, err := s.items.Count(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := &AnalyticsSummary{
		TotalIssues:        issueStats.Total,
		OpenIssues:         issueStats.Open,
		ResolvedIssues:     issueStats.Resolved,
		TotalUsers:         userCount,
		TotalLostItems:     itemCount,
		AvgResolutionHours: issueStats.AvgResolutionHours,
	}
	if issueStats.Total > 0 {
		summary.SLAComplianceRate = issueStats.SLACompliant * 100 / issueStats.Total
	}
	return summary, nil
}

// IssuesByStatus returns the status breakdown for the given date range.
func (s *AnalyticsService) IssuesByStatus(ctx context.Context, from, to *time.Time) ([]repository.StatusCount, error) {
	breakdown, err := s.issues.StatusBreakdown(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return breakdown, nil
}
