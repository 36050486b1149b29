package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
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
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, 422, "invalid_style", msg)
}

// errGone returns a 410 error for sessions that were evicted or never existed.
func errGone(c *fiber.Ctx, msg string) error {
	return newError(c, 410, "session_expired", msg)
}

// errFromDomain maps core sentinel errors onto API errors.
func errFromDomain(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return errGone(c, err.Error())
	case errors.Is(err, domain.ErrUnknownLayer),
		errors.Is(err, domain.ErrUnknownPreset),
		errors.Is(err, domain.ErrMarkerNotFound),
		errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidStyle):
		return errUnprocessable(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
