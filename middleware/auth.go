package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"MatirBank/Models"
	"MatirBank/Services"
)

// UserKey is the Locals key holding the authenticated *Models.User
const UserKey = "user"

// CookieName carries the login token
const CookieName = "jwt"

// Verify requires a valid login token, from the jwt cookie or a Bearer
// header. With roles given, the user must hold one of them.
func Verify(auth *Services.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not Logged In.",
			})
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			status := fiber.StatusUnauthorized
			if Services.KindOf(err) == Services.KindPersistence {
				status = fiber.StatusInternalServerError
			}
			msg := err.Error()
			var se *Services.Error
			if errors.As(err, &se) {
				msg = se.Message
			}
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"message": msg,
			})
		}

		// Store user in context for later use in handlers
		c.Locals(UserKey, user)

		if len(roles) == 0 || hasRole(user, roles) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient permissions to access this resource",
		})
	}
}

func hasRole(user *Models.User, roles []string) bool {
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}
