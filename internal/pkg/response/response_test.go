package response

import (
	"fmt"
	"testing"

	"agriconnect/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.Invalid("name is required"):                     fiber.StatusBadRequest,
		domain.New(domain.ErrConflict, "User already exists"):   fiber.StatusBadRequest,
		domain.ErrInvalidCredentials:                           fiber.StatusBadRequest,
		domain.ErrUnauthenticated:                              fiber.StatusUnauthorized,
		domain.New(domain.ErrForbidden, "Not authorized"):       fiber.StatusForbidden,
		fmt.Errorf("load: %w", domain.ErrNotFound):             fiber.StatusNotFound,
		domain.ErrUpstreamUnavailable:                          fiber.StatusServiceUnavailable,
		fmt.Errorf("connection reset"):                         fiber.StatusInternalServerError,
	}

	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}
