package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	jwtpkg "github.com/blazevtc/blazeride/internal/pkg/jwt"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// NewUpgrader returns the shared socket upgrader. Origin checks happen
// at the gateway, not here.
func NewUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// Authenticate extracts and validates the JWT on a socket upgrade
// request. The token comes from the Authorization header or, for
// browser clients, the token query parameter.
func Authenticate(c echo.Context, cfg models.JWTConfig) (*models.WebSocketClaims, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing credentials")
	}

	claims, err := jwtpkg.ValidateToken(token, cfg.Secret)
	if err != nil {
		logger.Warn("socket token validation failed", logger.Err(err))
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.QueryParam("token")
}
