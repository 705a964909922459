package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const XRequestID = "x-request-id"

type requestIDKey struct{}

func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(XRequestID).(string); ok && id != "" {
		return id
	}
	if id := GetRequestIDFromContext(c.Request().Context()); id != "" {
		return id
	}
	return c.Request().Header.Get(XRequestID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func injectRequestID(c echo.Context, reqID string) {
	ctx := context.WithValue(c.Request().Context(), requestIDKey{}, reqID)
	c.SetRequest(c.Request().WithContext(ctx))
	c.Set(XRequestID, reqID)
}

// RequestID propagates the caller's request id or mints a fresh one,
// and echoes it back on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := GetRequestID(c)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			injectRequestID(c, reqID)
			c.Response().Header().Set(XRequestID, reqID)
			return next(c)
		}
	}
}
