package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"indiadoors-be/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.CallerID(r.Context())
		require.True(t, ok)
		assert.Equal(t, uint(5), id)
		assert.Equal(t, "buyer@example.com", auth.CallerEmail(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireUser(next)

	t.Run("MissingToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", nil)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateToken(5, "buyer@example.com", "Customer")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimitMiddleware(next)

	t.Run("StrictTierExhausts", func(t *testing.T) {
		var lastCode int
		for i := 0; i < burstStrict+2; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", nil)
			req.RemoteAddr = "203.0.113.9:4411"

			handler.ServeHTTP(rec, req)
			lastCode = rec.Code
		}
		assert.Equal(t, http.StatusTooManyRequests, lastCode)
	})

	t.Run("GeneralTierAllows", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/1", nil)
		req.RemoteAddr = "203.0.113.10:4411"

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
