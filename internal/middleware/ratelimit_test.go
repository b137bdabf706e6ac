package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_GeneralEndpointsUseGeneralBucket(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.Handler(nextHandler)

	// The tight auth bucket must not apply to non-auth paths.
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Request %d failed with status %d", i, rec.Code)
		}
	}
}

func TestRateLimitMiddleware_AuthBucketIsTighter(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.Handler(nextHandler)

	// First request consumes the single burst token of the auth bucket.
	req1 := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	// The immediate second request must be rejected.
	req2 := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.Equal(t, "60", rec2.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_SeparateClients(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.Handler(nextHandler)

	reqA := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	reqA.Header.Set("X-Forwarded-For", "10.0.0.1")
	recA := httptest.NewRecorder()
	handler.ServeHTTP(recA, reqA)
	assert.Equal(t, http.StatusOK, recA.Code)

	// A different client gets its own bucket.
	reqB := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	reqB.Header.Set("X-Forwarded-For", "10.0.0.2")
	recB := httptest.NewRecorder()
	handler.ServeHTTP(recB, reqB)
	assert.Equal(t, http.StatusOK, recB.Code)
}
