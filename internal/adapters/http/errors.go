package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, city_not_found, poi_query_failed, ...
	Message   string `json:"message"` // shown to the user as is
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errPipeline maps directory and search errors to their HTTP form.
func errPipeline(c *fiber.Ctx, err error) error {
	var qerr *domain.POIQueryError
	switch {
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		return newError(c, fiber.StatusServiceUnavailable, "directory_unavailable", domain.MsgDirectoryUnavailable)
	case errors.Is(err, domain.ErrCityNotResolved):
		return newError(c, fiber.StatusNotFound, "city_not_found", domain.MsgCityNotResolved)
	case errors.As(err, &qerr):
		return newError(c, fiber.StatusBadGateway, "poi_query_failed", domain.MsgPOIQueryFailed)
	default:
		return newError(c, fiber.StatusInternalServerError, "internal_error", domain.UserMessage(err))
	}
}
