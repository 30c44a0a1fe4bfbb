package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identato/auth-service/internal/api/middleware"
	"github.com/identato/auth-service/internal/core/domain"
)

// currentUser extracts the principal attached by the request gate. Its
// presence proves the gate ran; a protected handler must never see a request
// without it.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
