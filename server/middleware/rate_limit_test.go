package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are limited separately")
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimiter(0.001, 1).Middleware())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}
