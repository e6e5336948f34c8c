package middleware // middleware contains reusable HTTP middleware functions

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/auth"
)

// principalKey is the context key the filter stores the authenticated
// principal under.
const principalKey = "principal"

// Authenticate returns an Echo middleware that resolves a Bearer session
// token into a principal and stores it in the request context. It never
// rejects a request: a missing, malformed, expired or forged token, a
// reset token, or a token for a user that no longer exists all leave the
// request anonymous and let it through. Enforcement is the job of
// RequireRole on the routes that need it.
func Authenticate(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if raw == "" {
				return next(c)
			}

			claims, err := svc.Codec().Verify(raw)
			if err != nil || claims.IsReset() {
				return next(c)
			}

			p, err := svc.LoadPrincipal(c.Request().Context(), claims.UserID)
			if err != nil {
				return next(c)
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal attached by Authenticate, or
// nil when the request is anonymous.
func CurrentPrincipal(c echo.Context) *auth.Principal {
	p, _ := c.Get(principalKey).(*auth.Principal)
	return p
}
