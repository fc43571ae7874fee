package server

import (
	"itsour/internal/models"
	"itsour/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetSettings handles GET /api/settings. The API key is always masked.
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settingsService.Get(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings handles PUT /api/settings
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	var req service.UpdateSettingsInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	settings, err := s.settingsService.Update(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(settings)
}

// GenerateSummary handles POST /api/ai/generate-summary
func (s *Server) GenerateSummary(c *fiber.Ctx) error {
	var req service.GenerateSummaryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	summary, err := s.aiService.GenerateSummary(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"summary": summary})
}
