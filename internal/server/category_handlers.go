package server

import (
	"itsour/internal/models"
	"itsour/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListCategories handles GET /api/categories
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.All(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req service.CreateCategoryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Create(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateCategoryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Update(c.Context(), id, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id. Articles in the
// category are detached, not deleted.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
