package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Machine-readable error codes carried in the "code" field of every error
// response so API clients can branch without parsing messages.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeForbidden            = "FORBIDDEN"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeInsufficientCapacity = "INSUFFICIENT_CAPACITY"
	CodeDuplicateBooking     = "DUPLICATE_BOOKING"
	CodeHoldExpired          = "HOLD_EXPIRED"
	CodeInvalidState         = "INVALID_STATE"
	CodeInternal             = "INTERNAL_ERROR"
)

// jsonError writes the standard error envelope {"code": ..., "error": ...}.
func jsonError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"code": code, "error": msg})
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores claims as interface{} values, so numeric types
// arrive as float64 after JSON decoding.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDate parses a YYYY-MM-DD value into a UTC midnight time.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
