package handlers

import (
	"strconv"

	"agriconnect/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Invalid("Invalid " + name)
	}
	return uint(id), nil
}
