package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-api/internal/core/ports"
)

// TokenHeader is the custom header carrying the bearer token. The wire
// format predates this service and is kept for client compatibility.
const TokenHeader = "x-access-token"

// userContextKey is where the resolved caller is stored on the echo context.
const userContextKey = "current_user"

// Auth validates the token from the x-access-token header and injects
// the freshly resolved user into the request context. The store lookup
// happens on every request so privilege changes apply immediately.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(TokenHeader)

			user, err := auth.Verify(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}
