package middleware

import (
	"strings"

	deliverycontext "cycletrack/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "bearer "

// BearerToken copies an "Authorization: Bearer <token>" header into the echo context.
// It never rejects a request; operations decide whether they need the token.
func BearerToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
		if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			deliverycontext.SetBearerToken(c, strings.TrimSpace(header[len(bearerPrefix):]))
		}

		return next(c)
	}
}
