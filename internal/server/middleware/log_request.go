package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type (
	// LogRequestConfig stores middleware configuration.
	LogRequestConfig struct {
		Logger       Logger
		Enabled      func(c echo.Context) bool
		RequestBody  func(c echo.Context) bool
		KeyAndValues func(c echo.Context) []interface{}
	}
)

// LogRequest logs one structured line per request: status, method, uri,
// latency, request id, and optionally the JSON request body.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	defFunc := func(c echo.Context) bool {
		return true
	}
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = defFunc
	}
	if config.RequestBody == nil {
		config.RequestBody = defFunc
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			var reqBody json.RawMessage
			if config.RequestBody(c) {
				contentType := req.Header.Get(echo.HeaderContentType)
				if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
					reqBody, _ = io.ReadAll(req.Body)
					if len(reqBody) == 0 {
						reqBody = nil
					}
					req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
				}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			latency := time.Since(start)

			args := make([]interface{}, 0, 16)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", latency.Milliseconds(),
				"real_ip", c.RealIP(),
				"request_id", GetRequestID(c),
			)
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}
			if reqBody != nil {
				args = append(args, "request_body", reqBody)
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				config.Logger.Errorw("request completed", args...)
			case res.Status >= http.StatusBadRequest:
				config.Logger.Warnw("request completed", args...)
			default:
				config.Logger.Infow("request completed", args...)
			}

			return nil
		}
	}
}
