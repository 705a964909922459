package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler returns a custom echo error handler that renders every
// unhandled error as the shared {success, error, details} payload.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &ResponseError{
			Status:       http.StatusInternalServerError,
			Err:          err,
			ErrorMessage: "internal server error",
			ErrorDetails: err.Error(),
		}

		switch v := err.(type) {
		case *echo.HTTPError:
			resp.Status = v.Code
			resp.ErrorMessage = fmt.Sprint(v.Message)
			resp.ErrorDetails = nil
		case *ResponseError:
			resp = v
		default:
			if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
				resp.Status = 499
			}
		}

		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "status", resp.Status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not write error response", "status", resp.Status, "error", err)
		}
	}
}
