package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/api/dto"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/service"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// LostItemsHandler exposes the lost-and-found endpoints.
type LostItemsHandler struct {
	items *service.LostItemService
}

// NewLostItemsHandler constructs the handler.
func NewLostItemsHandler(items *service.LostItemService) *LostItemsHandler {
	return &LostItemsHandler{items: items}
}

// Report handles POST /api/v1/lost-items.
func (h *LostItemsHandler) Report(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.ReportItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.items.ReportItem(c.UserContext(), p.User.ID, service.ItemReportInput{
		ItemName:            req.ItemName,
		Description:         req.Description,
		ItemType:            req.ItemType,
		Category:            req.Category,
		Location:            req.Location.ToLocation(),
		LastSeenAt:          req.LastSeenAt,
		Color:               req.Color,
		Size:                req.Size,
		Brand:               req.Brand,
		IdentifyingFeatures: req.IdentifyingFeatures,
		EstimatedValue:      req.EstimatedValue,
		Images:              req.Images,
		ContactPhone:        req.ContactPhone,
		ContactEmail:        req.ContactEmail,
		Visibility:          req.Visibility,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLostItemResponse(item))
}

// List handles GET /api/v1/lost-items. Staff additionally see staff-only
// records.
func (h *LostItemsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	filter := repository.ItemFilter{
		Limit:     limit,
		Offset:    offset,
		StaffView: p.User.Role.IsStaff(),
	}

	if itemType := c.Query("item_type"); itemType != "" {
		t := domain.ItemType(itemType)
		filter.ItemType = &t
	}
	if category := c.Query("category"); category != "" {
		cat := domain.ItemCategory(category)
		filter.Category = &cat
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.ItemStatus{domain.ItemStatus(status)}
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	filter.CreatedFrom, filter.CreatedTo = from, to

	items, err := h.items.ListItems(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": respondItems(items), "count": len(items)})
}

// MyItems handles GET /api/v1/lost-items/mine.
func (h *LostItemsHandler) MyItems(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	items, err := h.items.ListItems(c.UserContext(), repository.ItemFilter{
		ReportedBy: &p.User.ID,
		StaffView:  true,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": respondItems(items), "count": len(items)})
}

// Get handles GET /api/v1/lost-items/:id.
func (h *LostItemsHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	item, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if item.Visibility != domain.ItemVisibilityPublic && !p.User.Role.IsStaff() && item.ReportedBy != p.User.ID {
		return apperrors.NewNotFound("lost item", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(dto.NewLostItemResponse(item))
}

// Claim handles POST /api/v1/lost-items/:id/claim. Reporters cannot claim
// their own records.
func (h *LostItemsHandler) Claim(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.ClaimItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	existing, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if existing.ReportedBy == p.User.ID {
		return apperrors.NewValidationError("cannot claim your own report", nil)
	}

	item, err := h.items.Claim(c.UserContext(), c.Params("id"), p.User.ID, req.ClaimDescription)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLostItemResponse(item))
}

// Resolve handles POST /api/v1/lost-items/:id/resolve. Allowed for the
// reporter or staff.
func (h *LostItemsHandler) Resolve(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	existing, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if existing.ReportedBy != p.User.ID && !p.User.Role.IsStaff() {
		return apperrors.NewForbidden("only the reporter or staff can resolve this item")
	}

	item, err := h.items.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLostItemResponse(item))
}

// Unclaim handles POST /api/v1/lost-items/:id/unclaim (staff only): rejects
// a claim and returns the record to the open pool.
func (h *LostItemsHandler) Unclaim(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}

	item, err := h.items.Unclaim(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLostItemResponse(item))
}

// Matches handles GET /api/v1/lost-items/:id/matches: a fresh scoring run
// against current candidates.
func (h *LostItemsHandler) Matches(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}

	matches, err := h.items.GetMatches(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.MatchCandidateResponse, 0, len(matches))
	for i := range matches {
		out = append(out, dto.MatchCandidateResponse{
			Item:  dto.NewLostItemResponse(&matches[i].Item),
			Score: matches[i].Score,
		})
	}
	return c.JSON(fiber.Map{"matches": out, "count": len(out)})
}

func respondItems(items []domain.LostItem) []dto.LostItemResponse {
	out := make([]dto.LostItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewLostItemResponse(&items[i]))
	}
	return out
}
