package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/admin-api/internal/core/ports"
)

// Session resolves the acting session and injects it into the request
// context. The cookie token is tried first; API clients without cookies may
// send the bearer token issued at login instead. Requests carrying neither
// are rejected with 403.
func Session(store ports.SessionStore, auth ports.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				if data, ok := store.Get(cookie.Value); ok {
					c.Set("session", data)
					return next(c)
				}
			}

			if header := c.Request().Header.Get("Authorization"); header != "" {
				parts := strings.SplitN(header, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					if data, err := auth.VerifyBearer(parts[1]); err == nil {
						c.Set("session", data)
						return next(c)
					}
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "invalid session")
		}
	}
}
