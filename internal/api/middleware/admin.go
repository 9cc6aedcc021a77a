package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-api/internal/core/domain"
)

// RequireAdmin rejects callers without the admin flag. It must run
// after Auth, which is what puts the user on the context.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok || !user.IsAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// CurrentUser extracts the authenticated caller placed on the context
// by Auth. The second return value is false when Auth did not run.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok
}
