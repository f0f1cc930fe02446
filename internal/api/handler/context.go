package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

// sessionFrom extracts the session data injected by the Session middleware.
// Its presence proves the middleware ran; a handler reached without it is a
// wiring bug and is rejected outright.
func sessionFrom(c echo.Context) (domain.SessionData, error) {
	sess, ok := c.Get("session").(domain.SessionData)
	if !ok {
		return domain.SessionData{}, echo.NewHTTPError(http.StatusForbidden, "invalid session")
	}
	return sess, nil
}
