package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func setupRouter(r rate.Limit, b int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiter(r, b))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	router := setupRouter(rate.Limit(0.5), 2)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)

	w := get(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimiter_PerClientIP(t *testing.T) {
	router := setupRouter(rate.Limit(0.5), 1)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2:1234").Code)
}

func TestRateLimiter_ZeroRateDisables(t *testing.T) {
	router := setupRouter(0, 0)

	for range 20 {
		assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)
	}
}

func TestIPRateLimiter_ReusesBucket(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)

	assert.Same(t, limiter.GetLimiter("10.0.0.1"), limiter.GetLimiter("10.0.0.1"))
	assert.NotSame(t, limiter.GetLimiter("10.0.0.1"), limiter.GetLimiter("10.0.0.2"))
}
