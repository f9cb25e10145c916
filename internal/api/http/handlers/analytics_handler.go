package handlers

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/service"
)

// AnalyticsHandler exposes the staff reporting endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	issues    *service.IssueService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, issues *service.IssueService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, issues: issues}
}

// Summary handles GET /api/v1/analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	summary, err := h.analytics.Summary(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// IssuesByStatus handles GET /api/v1/analytics/issues-by-status.
func (h *AnalyticsHandler) IssuesByStatus(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	counts, err := h.analytics.IssuesByStatus(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"by_status": counts})
}

// ExportIssuesCSV handles GET /api/v1/analytics/issues/export: a flat CSV of
// issues in the given date range.
func (h *AnalyticsHandler) ExportIssuesCSV(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	// Exports bypass the page-size clamp; they are staff-only and bounded
	// by the date range.
	issues, err := h.issues.ListIssues(c.UserContext(), repository.IssueFilter{
		CreatedFrom: from,
		CreatedTo:   to,
		Limit:       10000,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "category", "priority", "status", "hostel", "created_by", "assigned_to", "upvotes", "created_at", "resolved_at"})
	for i := range issues {
		issue := &issues[i]
		assignedTo, resolvedAt := "", ""
		if issue.AssignedTo != nil {
			assignedTo = *issue.AssignedTo
		}
		if issue.ResolvedAt != nil {
			resolvedAt = issue.ResolvedAt.UTC().Format("2006-01-02 15:04:05")
		}
		_ = w.Write([]string{
			issue.ID,
			issue.Title,
			issue.Category,
			string(issue.Priority),
			string(issue.Status),
			issue.Hostel,
			issue.CreatedBy,
			assignedTo,
			strconv.Itoa(len(issue.Upvotes)),
			issue.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			resolvedAt,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="issues.csv"`)
	return c.Send(buf.Bytes())
}
