package token

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avkuzmin/shopcart-backend/internal/logging"
)

// HeaderName is the request header the storefront client sends its token in.
const HeaderName = "auth-token"

const userIDKey = "userID"

// Middleware gates a route group on a valid signed token. A missing or
// unverifiable token stops the chain with 401 before the handler runs.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

			tokenString := c.Request().Header.Get(HeaderName)
			if tokenString == "" {
				l.Warn("auth_failed", "status", 401, "reason", "missing_token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate using valid token")
			}

			userID, err := ParseUserID(secret, tokenString)
			if err != nil {
				l.Warn("auth_failed", "status", 401, "reason", "invalid_token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate using valid token")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id attached by Middleware.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(userIDKey).(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate using valid token")
	}
	return id, nil
}
