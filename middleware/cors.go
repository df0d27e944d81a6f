package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var (
	allowMethods = []string{
		fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions,
	}
	allowHeaders = []string{
		fiber.HeaderContentType, fiber.HeaderAuthorization, fiber.HeaderXRequestedWith,
	}
)

// CORS allows any origin
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: strings.Join(allowMethods, ","),
		AllowHeaders: strings.Join(allowHeaders, ","),
	})
}

// Preflight answers every OPTIONS request with 200 and an empty body,
// whether or not a route or the CORS handler claimed it. It must be
// mounted before CORS.
func Preflight() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodOptions {
			return c.Next()
		}

		if err := c.Next(); err != nil {
			var fe *fiber.Error
			if !errors.As(err, &fe) || (fe.Code != fiber.StatusNotFound && fe.Code != fiber.StatusMethodNotAllowed) {
				return err
			}
		}

		if len(c.Response().Header.Peek(fiber.HeaderAccessControlAllowOrigin)) == 0 {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
			c.Set(fiber.HeaderAccessControlAllowMethods, strings.Join(allowMethods, ", "))
			c.Set(fiber.HeaderAccessControlAllowHeaders, strings.Join(allowHeaders, ", "))
		}
		c.Response().ResetBody()
		c.Status(fiber.StatusOK)
		return nil
	}
}
