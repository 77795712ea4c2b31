package middleware

import (
	"encoding/json"
	"net/http"

	"indiadoors-be/internal/auth"
)

// RequireUser rejects requests without a valid access token and attaches the
// caller identity to the request context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			writeUnauthorized(w, "missing access token")
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := auth.SetCallerContext(r.Context(), claims.UserID, claims.Email, claims.UserType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
