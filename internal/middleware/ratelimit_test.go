package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_Window(t *testing.T) {
	l := NewMemoryLimiter()
	window := 200 * time.Millisecond

	assert.True(t, l.Allow("k", 2, window))
	assert.True(t, l.Allow("k", 2, window))
	assert.False(t, l.Allow("k", 2, window))
	assert.True(t, l.Allow("other", 2, window))

	time.Sleep(2 * window)
	assert.True(t, l.Allow("k", 2, window))
}

func TestMemoryLimiter_NoLimitConfigured(t *testing.T) {
	l := NewMemoryLimiter()
	for n := 0; n < 5; n++ {
		assert.True(t, l.Allow("k", 0, time.Minute))
		assert.True(t, l.Allow("", 1, time.Minute))
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(NewMemoryLimiter(), ClientIP(false), 1, time.Minute)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_ForwardedHeaderDoesNotResetLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(NewMemoryLimiter(), ClientIP(false), 1, time.Minute)(next)

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("1.2.3.%d", i))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:4000"
	assert.Equal(t, "192.168.1.10", ClientIP(false)(req))
	assert.Equal(t, "192.168.1.10", ClientIP(true)(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ClientIP(true)(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "192.168.1.10", ClientIP(false)(req))
	assert.Equal(t, "203.0.113.5", ClientIP(true)(req))
}
