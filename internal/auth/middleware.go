package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/domain"
)

const sessionContextKey = "session"

// Middleware rejects requests without a valid bearer token and stores the
// verified session on the echo context.
func Middleware(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return unauthorized(c, "missing bearer token")
			}
			session, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				return unauthorized(c, err.Error())
			}
			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Middleware.
func SessionFrom(c echo.Context) (domain.Session, bool) {
	session, ok := c.Get(sessionContextKey).(domain.Session)
	return session, ok
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, domain.ErrorBody{
		Error: domain.ErrorDetail{Code: "unauthorized", Message: message},
	})
}
