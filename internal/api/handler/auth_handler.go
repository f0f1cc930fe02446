package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/admin-api/internal/api/metrics"
	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookieName  string
}

func NewAuthHandler(authService ports.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Login string      `json:"login"`
	// Token is an HS256 bearer token for clients that cannot hold the cookie.
	Token string `json:"token,omitempty"`
}

// Login exchanges email+password for a session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    result.SessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Email: result.Session.Email,
		Role:  result.Session.Role,
		Login: result.Session.Login,
		Token: result.BearerToken,
	})
}
