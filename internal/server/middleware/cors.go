package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS returns a permissive cross-origin middleware: the shared
// dashboard is served from arbitrary origins, so every endpoint answers
// with a wildcard and preflights short-circuit with 204.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Set(echo.HeaderAccessControlAllowOrigin, "*")
			respHeader.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type, Authorization")
			respHeader.Set(echo.HeaderAccessControlAllowMethods, "OPTIONS, GET, POST, PUT, PATCH, DELETE")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
