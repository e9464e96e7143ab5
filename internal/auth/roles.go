package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-analytics/internal/domain"
	apperrors "github.com/spec-kit/demand-analytics/pkg/util/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles. It is a no-op when
// authentication is disabled.
func (m *AuthMiddleware) RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if !m.Enabled() {
			return c.Next()
		}
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// ScopedUnit returns the unit a non-admin principal is restricted to, if any.
func ScopedUnit(c *fiber.Ctx) (string, bool) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Role == domain.RoleAdmin || principal.UnitID == nil || *principal.UnitID == "" {
		return "", false
	}
	return *principal.UnitID, true
}
