package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fazilraphi/blig-blogs/internal/service"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID      = "user_id"      // uint64 actor id
	CtxAccessToken = "access_token" // raw bearer string, needed by logout
)

// JWTAuth returns an Echo middleware that validates a Bearer
// access token through the token service (signature, expiry, typ
// and revocation list) and stores the authenticated user id in the
// request context under CtxUserID. Every route that takes an
// acting user must be wrapped by it.
func JWTAuth(tokens *service.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, err := tokens.Validate(c.Request().Context(), raw, service.TokenTypeAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, userID)
			c.Set(CtxAccessToken, raw)
			return next(c)
		}
	}
}
