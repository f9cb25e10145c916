package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/api/dto"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/repository"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/service"
)

// AnnouncementsHandler exposes the hostel announcement endpoints.
type AnnouncementsHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementsHandler constructs the handler.
func NewAnnouncementsHandler(announcements *service.AnnouncementService) *AnnouncementsHandler {
	return &AnnouncementsHandler{announcements: announcements}
}

// Create handles POST /api/v1/announcements (staff only).
func (h *AnnouncementsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateAnnouncementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	announcement, err := h.announcements.Create(c.UserContext(), p.User.ID, service.AnnouncementCreateInput{
		Title:          req.Title,
		Body:           req.Body,
		Category:       req.Category,
		Priority:       req.Priority,
		TargetAudience: req.TargetAudience,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAnnouncementResponse(announcement))
}

// List handles GET /api/v1/announcements, filtered to the caller's audience.
func (h *AnnouncementsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	filter := repository.AnnouncementFilter{Limit: limit, Offset: offset}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	// Students only see announcements addressed to all or students; likewise
	// for staff. Admins see everything.
	if p.User.Role != domain.RoleAdmin {
		audience := domain.AudienceStudents
		if p.User.Role.IsStaff() {
			audience = domain.AudienceStaff
		}
		filter.TargetAudience = &audience
	}

	announcements, err := h.announcements.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	out := make([]dto.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		out = append(out, dto.NewAnnouncementResponse(&announcements[i]))
	}
	return c.JSON(fiber.Map{"announcements": out, "count": len(out)})
}

// Delete handles DELETE /api/v1/announcements/:id (admin only).
func (h *AnnouncementsHandler) Delete(c *fiber.Ctx) error {
	if err := h.announcements.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
