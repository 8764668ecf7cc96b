package server

import (
	"smartchecklist/internal/models"
	"smartchecklist/internal/service"

	"github.com/gofiber/fiber/v2"
)

type checklistRequest struct {
	Title *string `json:"title"`
}

// ListChecklists handles GET /api/checklists
func (s *Server) ListChecklists(c *fiber.Ctx) error {
	lists, err := s.checklistService.ListChecklists(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if lists == nil {
		lists = []*models.Checklist{}
	}
	return c.JSON(fiber.Map{"checklists": lists})
}

// CreateChecklist handles POST /api/checklists
func (s *Server) CreateChecklist(c *fiber.Ctx) error {
	var req checklistRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Title == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Title is required"))
	}

	checklist, err := s.checklistService.CreateChecklist(c.UserContext(), service.CreateChecklistInput{
		UserID: currentUserID(c),
		Title:  *req.Title,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(checklist)
}

// GetChecklist handles GET /api/checklists/:id and returns the item forest.
func (s *Server) GetChecklist(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.checklistService.GetChecklist(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	if detail.Items == nil {
		detail.Items = []*models.ItemNode{}
	}
	return c.JSON(detail)
}

// UpdateChecklist handles PUT /api/checklists/:id
func (s *Server) UpdateChecklist(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req checklistRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Title == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Title is required"))
	}

	checklist, err := s.checklistService.UpdateChecklist(c.UserContext(), service.UpdateChecklistInput{
		UserID:      currentUserID(c),
		ChecklistID: id,
		Title:       *req.Title,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(checklist)
}

// DeleteChecklist handles DELETE /api/checklists/:id
func (s *Server) DeleteChecklist(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.checklistService.DeleteChecklist(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Checklist deleted successfully"})
}
