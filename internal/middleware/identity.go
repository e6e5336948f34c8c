package middleware

// identity.go holds small helpers shared across middleware files.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a stable identifier for rate-limit keys: the
// authenticated user's id, or "anon" for guests.
func currentUserID(c echo.Context) string {
	if p := CurrentPrincipal(c); p != nil {
		return strconv.FormatUint(p.ID, 10)
	}
	return "anon"
}
