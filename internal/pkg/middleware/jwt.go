package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	jwtpkg "github.com/blazevtc/blazeride/internal/pkg/jwt"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// JWTAuthMiddleware creates a middleware for JWT authentication.
// On success the caller's id and role are set on the Echo context.
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("user_role", claims.Role)

			return next(c)
		}
	}
}

// UserID extracts the authenticated caller id from the Echo context.
func UserID(c echo.Context) int64 {
	if id, ok := c.Get("user_id").(int64); ok {
		return id
	}
	return 0
}

// UserRole extracts the authenticated caller role from the Echo context.
func UserRole(c echo.Context) string {
	if role, ok := c.Get("user_role").(string); ok {
		return role
	}
	return ""
}
