package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the admin session lifetime.
const tokenTTL = 24 * time.Hour

// Login handles POST /api/auth/login. The single admin identity comes from
// configuration; any failure yields the same 401 so probing cannot tell a
// wrong username from a wrong password.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.invalidCredentials(c)
	}

	// The comparison runs even for unknown usernames so response timing
	// does not reveal which field was wrong.
	usernameOK := req.Username == s.config.AdminUsername
	passwordOK := bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)) == nil
	if !usernameOK || !passwordOK {
		return s.invalidCredentials(c)
	}

	claims := jwt.MapClaims{
		"sub": req.Username,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create token",
		})
	}

	return c.JSON(fiber.Map{
		"access_token": signed,
		"token_type":   "bearer",
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logout is
// purely a client-side discard; the endpoint exists for API symmetry.
func (s *Server) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (s *Server) invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid username or password",
	})
}
