package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identato/auth-service/internal/api/response"
)

// HomeHandler serves the protected sample surface behind the request gate.
type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home greets any authenticated principal.
//
// @Summary      Home page
// @Tags         home
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Router       /api/v1/home [get]
func (h *HomeHandler) Home(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Welcome home, "+user.FirstName)
}

// UserArea is reachable with the USER role only.
//
// @Summary      User area
// @Tags         home
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /api/v1/user [get]
func (h *HomeHandler) UserArea(c echo.Context) error {
	return response.OK(c, http.StatusOK, nil, "Hello user")
}

// AdminArea is reachable with the ADMIN role only.
//
// @Summary      Admin area
// @Tags         home
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /api/v1/admin [get]
func (h *HomeHandler) AdminArea(c echo.Context) error {
	return response.OK(c, http.StatusOK, nil, "Hello admin")
}

// Me returns the caller's own principal view, read from the context the gate
// populated; the token is not re-parsed.
//
// @Summary      Current principal
// @Tags         home
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Router       /api/v1/user/me [get]
func (h *HomeHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, userView(user), "OK")
}
