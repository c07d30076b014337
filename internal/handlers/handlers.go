package handlers

import (
	"errors"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody binds the request body into v and validates it. When it reports
// false the 400 response has already been written and the caller returns err.
func parseBody(c *fiber.Ctx, v interface{}) (bool, error) {
	if err := c.BodyParser(v); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(v); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Request validation failed",
			"error":   err.Error(),
		})
	}
	return true, nil
}

// lineIDParam returns the unescaped :lineId path parameter. Line ids of
// customized items contain commas.
func lineIDParam(c *fiber.Ctx) (string, error) {
	id, err := url.PathUnescape(c.Params("lineId"))
	if err != nil {
		return "", errors.New("malformed line id")
	}
	return id, nil
}
