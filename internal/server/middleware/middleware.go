package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

var DefaultSkipper = func(c echo.Context) bool {
	return false
}

type Skipper func(c echo.Context) bool

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Debugw(template string, args ...interface{})
	Infow(template string, args ...interface{})
	Warnw(template string, args ...interface{})
	Errorw(template string, args ...interface{})
}

type ResponseError struct {
	Status       int         `json:"-"`
	Err          error       `json:"-"`
	Success      bool        `json:"success"`
	ErrorMessage string      `json:"error,omitempty"`
	ErrorDetails interface{} `json:"details,omitempty"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("status: %d; message: %s; err: %+v", e.Status, e.ErrorMessage, e.Err)
}
