package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/api/dto"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/service"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// IssuesHandler exposes the maintenance-issue endpoints.
type IssuesHandler struct {
	issues *service.IssueService
}

// NewIssuesHandler constructs the handler.
func NewIssuesHandler(issues *service.IssueService) *IssuesHandler {
	return &IssuesHandler{issues: issues}
}

// Create handles POST /api/v1/issues.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateIssueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.issues.CreateIssue(c.UserContext(), p.User.ID, service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Visibility:  req.Visibility,
		Hostel:      firstNonEmpty(req.Hostel, p.User.Hostel),
		Block:       firstNonEmpty(req.Block, p.User.Block),
		RoomNumber:  firstNonEmpty(req.RoomNumber, p.User.RoomNumber),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.respond(issue))
}

// List handles GET /api/v1/issues. Students see public issues plus their
// own; staff see everything.
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	filter := repository.IssueFilter{Limit: limit, Offset: offset}

	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.IssueStatus{domain.IssueStatus(status)}
	}
	if priority := c.Query("priority"); priority != "" {
		filter.Priorities = []domain.IssuePriority{domain.IssuePriority(priority)}
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if hostel := c.Query("hostel"); hostel != "" {
		filter.Hostel = &hostel
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	filter.CreatedFrom, filter.CreatedTo = from, to

	if !p.User.Role.IsStaff() {
		filter.VisibleTo = &p.User.ID
	}

	issues, err := h.issues.ListIssues(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"issues": h.respondList(issues), "count": len(issues)})
}

// Get handles GET /api/v1/issues/:id.
func (h *IssuesHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	issue, err := h.issues.GetIssue(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if issue.Visibility == domain.IssueVisibilityPrivate && !p.User.Role.IsStaff() && issue.CreatedBy != p.User.ID {
		// Private issues are invisible to other students, not forbidden.
		return apperrors.NewNotFound("issue", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(h.respond(issue))
}

// UpdateStatus handles PATCH /api/v1/issues/:id/status (staff only).
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.UpdateIssueStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.issues.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, p.User.ID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(h.respond(issue))
}

// AddComment handles POST /api/v1/issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.AddCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.issues.AddComment(c.UserContext(), c.Params("id"), p.User.ID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.respond(issue))
}

// ToggleUpvote handles POST /api/v1/issues/:id/upvote.
func (h *IssuesHandler) ToggleUpvote(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	issue, err := h.issues.ToggleUpvote(c.UserContext(), c.Params("id"), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"issue":   h.respond(issue),
		"upvoted": issue.HasUpvoted(p.User.ID),
		"count":   len(issue.Upvotes),
	})
}

// Assign handles POST /api/v1/issues/:id/assign (staff only).
func (h *IssuesHandler) Assign(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.AssignIssueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.issues.Assign(c.UserContext(), c.Params("id"), req.AssigneeID, p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(h.respond(issue))
}

// Escalate handles POST /api/v1/issues/:id/escalate (staff only).
func (h *IssuesHandler) Escalate(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}

	var req dto.EscalateIssueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.issues.Escalate(c.UserContext(), c.Params("id"), req.EscalateTo)
	if err != nil {
		return err
	}
	return c.JSON(h.respond(issue))
}

// BreachCandidates handles GET /api/v1/issues/sla/breaches (staff only):
// open issues already past 75% of their resolution target.
func (h *IssuesHandler) BreachCandidates(c *fiber.Ctx) error {
	issues, err := h.issues.ListBreachCandidates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"issues": h.respondList(issues), "count": len(issues)})
}

func (h *IssuesHandler) respond(issue *domain.Issue) dto.IssueResponse {
	return dto.NewIssueResponse(issue, string(h.issues.SLAStateFor(issue)))
}

func (h *IssuesHandler) respondList(issues []domain.Issue) []dto.IssueResponse {
	out := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		out = append(out, h.respond(&issues[i]))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
