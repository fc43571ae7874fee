package server

import (
	"errors"

	"itsour/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 422 JSON response and returns errResponseWritten. Callers
// should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// queryUint reads an optional positive integer query parameter, nil when
// absent or unparsable.
func queryUint(c *fiber.Ctx, name string) *uint {
	v := c.QueryInt(name, -1)
	if v <= 0 {
		return nil
	}
	u := uint(v)
	return &u
}
