package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/identato/auth-service/internal/api/metrics"
	"github.com/identato/auth-service/internal/core/domain"
)

// RBAC enforces role-based access control over the role attached by Auth.
// Rejections flow through the central error translator as a forbidden
// response.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRoleKey).(string)
			if _, ok := allowed[role]; !ok {
				metrics.RequestsRejectedTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
