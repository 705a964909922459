package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(CORS())
	e.POST("/save", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/save", nil)
		req.Header.Set("Origin", "https://shared.example.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("cors headers on normal responses", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/save", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("wrong method still rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/save", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
