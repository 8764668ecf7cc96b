package server

import (
	"smartchecklist/internal/models"
	"smartchecklist/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createItemRequest struct {
	Content      *string `json:"content"`
	URL          string  `json:"url"`
	ParentItemID idText  `json:"parent_item_id"`
}

type updateItemRequest struct {
	Content *string `json:"content"`
	URL     *string `json:"url"`
	Checked *bool   `json:"checked"`
}

// itemScope reads the checklist and item ids from the route.
func itemScope(c *fiber.Ctx) (service.ItemScope, error) {
	checklistID, err := parseID(c, "id")
	if err != nil {
		return service.ItemScope{}, err
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return service.ItemScope{}, err
	}
	return service.ItemScope{UserID: currentUserID(c), ChecklistID: checklistID, ItemID: itemID}, nil
}

// ListItems handles GET /api/checklists/:id/items
func (s *Server) ListItems(c *fiber.Ctx) error {
	checklistID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	items, err := s.itemService.ListItems(c.UserContext(), currentUserID(c), checklistID)
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return c.JSON(fiber.Map{
		"checklist_id": checklistID,
		"items":        items,
	})
}

// CreateItem handles POST /api/checklists/:id/items
func (s *Server) CreateItem(c *fiber.Ctx) error {
	checklistID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req createItemRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Content == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Content is required"))
	}

	item, err := s.itemService.CreateItem(c.UserContext(), service.CreateItemInput{
		UserID:       currentUserID(c),
		ChecklistID:  checklistID,
		Content:      *req.Content,
		URL:          req.URL,
		ParentItemID: string(req.ParentItemID),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItem handles GET /api/checklists/:id/items/:itemId
func (s *Server) GetItem(c *fiber.Ctx) error {
	scope, err := itemScope(c)
	if err != nil {
		return nil
	}

	item, err := s.itemService.GetItem(c.UserContext(), scope)
	if err != nil {
		return respondError(c, err)
	}
	if item.Subitems == nil {
		item.Subitems = []*models.Item{}
	}
	return c.JSON(item)
}

// UpdateItem handles PUT /api/checklists/:id/items/:itemId. Omitted fields
// keep their current value.
func (s *Server) UpdateItem(c *fiber.Ctx) error {
	scope, err := itemScope(c)
	if err != nil {
		return nil
	}
	var req updateItemRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	item, err := s.itemService.EditItem(c.UserContext(), service.EditItemInput{
		ItemScope: scope,
		Content:   req.Content,
		URL:       req.URL,
		Checked:   req.Checked,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// ToggleItem handles POST /api/checklists/:id/items/:itemId/toggle
func (s *Server) ToggleItem(c *fiber.Ctx) error {
	scope, err := itemScope(c)
	if err != nil {
		return nil
	}

	res, err := s.itemService.ToggleItem(c.UserContext(), scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":      res.Item.ID,
		"checked": res.Checked,
		"message": res.Message,
	})
}

// DeleteItem handles DELETE /api/checklists/:id/items/:itemId and removes
// the item together with everything below it.
func (s *Server) DeleteItem(c *fiber.Ctx) error {
	scope, err := itemScope(c)
	if err != nil {
		return nil
	}

	deleted, err := s.itemService.DeleteItem(c.UserContext(), scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Item deleted successfully",
		"deleted": deleted,
	})
}
