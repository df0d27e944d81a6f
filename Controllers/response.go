package Controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"MatirBank/Services"
)

// Every response is the envelope {success, message?, data?}

func success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func successMessage(c *fiber.Ctx, message string, data interface{}) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(body)
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	c.Status(fiber.StatusCreated)
	return successMessage(c, message, data)
}

func failStatus(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// StatusOf maps a service error kind to its HTTP status
func StatusOf(kind Services.Kind) int {
	switch kind {
	case Services.KindValidation:
		return fiber.StatusBadRequest
	case Services.KindNotFound:
		return fiber.StatusNotFound
	case Services.KindConflict:
		return fiber.StatusConflict
	case Services.KindAuth:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func messageOf(err error) string {
	var se *Services.Error
	if errors.As(err, &se) && se.Kind != Services.KindPersistence {
		return se.Message
	}
	// Store failures carry the underlying error text
	return err.Error()
}

func fail(c *fiber.Ctx, err error) error {
	return failStatus(c, StatusOf(Services.KindOf(err)), messageOf(err))
}

// rejectAs reports every non-store failure with status, e.g. order
// rejections which are all 400
func rejectAs(c *fiber.Ctx, err error, status int) error {
	if Services.KindOf(err) == Services.KindPersistence {
		return fail(c, err)
	}
	return failStatus(c, status, messageOf(err))
}

// resourceID reads the id from the path, falling back to ?id=
func resourceID(c *fiber.Ctx) (uint, bool) {
	raw := c.Params("id")
	if raw == "" {
		raw = c.Query("id")
	}
	return parseID(raw)
}

func queryID(c *fiber.Ctx, key string) (uint, bool) {
	return parseID(c.Query(key))
}

func parseID(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ErrorHandler answers errors that escaped a handler (routing misses,
// recovered panics) with the envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		switch fe.Code {
		case fiber.StatusNotFound:
			message = "Endpoint not found"
		case fiber.StatusMethodNotAllowed:
			message = "Method not allowed"
		default:
			message = fe.Message
		}
	} else if errors.As(err, new(*Services.Error)) {
		status = StatusOf(Services.KindOf(err))
		message = messageOf(err)
	}
	return failStatus(c, status, message)
}
