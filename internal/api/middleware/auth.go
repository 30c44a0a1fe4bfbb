package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identato/auth-service/internal/api/metrics"
	"github.com/identato/auth-service/internal/core/ports"
)

// Context keys under which the gate attaches the resolved caller.
const (
	ContextUserKey = "auth_user"
	ContextRoleKey = "auth_role"
)

// Auth is the request gate: the single choke point ahead of every protected
// handler. It extracts the bearer token, resolves the principal through the
// credential store, validates the token against that principal and attaches
// principal and role to the request context. Paths matching the allow-list
// pass through untouched.
func Auth(tokens ports.TokenService, repo ports.UserRepository, allowList ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if matchAny(allowList, c.Request().URL.Path) {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				metrics.RequestsRejectedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.RequestsRejectedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			token := parts[1]

			// An empty email means the token verifies but carries no
			// user_email claim, so there is no principal to resolve.
			email, err := tokens.ExtractEmail(token)
			if err != nil || email == "" {
				metrics.RequestsRejectedTotal.WithLabelValues("malformed_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := repo.FindByEmail(c.Request().Context(), email)
			if err != nil {
				metrics.RequestsRejectedTotal.WithLabelValues("unknown_principal").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ok, err := tokens.IsValid(token, user)
			if err != nil || !ok {
				metrics.RequestsRejectedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextRoleKey, user.Role)

			return next(c)
		}
	}
}
