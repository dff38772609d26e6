package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GuoYangtuo/potato-timer/internal/ctxkeys"
)

// TokenVerifier turns a bearer token into a user id.
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

// RequireAuth rejects requests without a valid Bearer token and puts the
// caller's user id on the context.
func RequireAuth(verifier TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := verify(verifier, r)
			if !ok {
				unauthorized(w)
				return
			}
			next(w, r.WithContext(ctxkeys.WithUserID(r.Context(), userID)))
		}
	}
}

// OptionalAuth attaches the user id when a valid Bearer token is present
// and lets the request through anonymously otherwise. A malformed or
// expired token is treated the same as no token.
func OptionalAuth(verifier TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := verify(verifier, r); ok {
				r = r.WithContext(ctxkeys.WithUserID(r.Context(), userID))
			}
			next(w, r)
		}
	}
}

func verify(verifier TokenVerifier, r *http.Request) (int64, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return 0, false
	}

	userID, err := verifier.VerifyToken(token)
	if err != nil {
		return 0, false
	}
	return userID, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "authentication required",
	})
}
