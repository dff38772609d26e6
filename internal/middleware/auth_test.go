package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GuoYangtuo/potato-timer/internal/ctxkeys"
)

type stubVerifier struct {
	userID int64
	err    error
}

func (s stubVerifier) VerifyToken(string) (int64, error) {
	return s.userID, s.err
}

func capture(into *int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*into = ctxkeys.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireAuthRejectsMissingOrBadToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare bearer", "Bearer "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got int64
			h := RequireAuth(stubVerifier{userID: 7})(capture(&got))

			r := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Zero(t, got)
			assert.JSONEq(t, `{"success":false,"message":"authentication required"}`, w.Body.String())
		})
	}

	t.Run("invalid token", func(t *testing.T) {
		var got int64
		h := RequireAuth(stubVerifier{err: errors.New("expired")})(capture(&got))

		r := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
		r.Header.Set("Authorization", "Bearer whatever")
		w := httptest.NewRecorder()
		h(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuthPassesUserID(t *testing.T) {
	var got int64
	h := RequireAuth(stubVerifier{userID: 42})(capture(&got))

	r := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	r.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), got)
}

func TestOptionalAuth(t *testing.T) {
	t.Run("valid token attaches id", func(t *testing.T) {
		var got int64
		h := OptionalAuth(stubVerifier{userID: 42})(capture(&got))

		r := httptest.NewRequest(http.MethodGet, "/api/motivations/public", nil)
		r.Header.Set("Authorization", "Bearer token")
		w := httptest.NewRecorder()
		h(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(42), got)
	})

	t.Run("no token stays anonymous", func(t *testing.T) {
		var got int64 = -1
		h := OptionalAuth(stubVerifier{userID: 42})(capture(&got))

		r := httptest.NewRequest(http.MethodGet, "/api/motivations/public", nil)
		w := httptest.NewRecorder()
		h(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, got)
	})

	t.Run("bad token stays anonymous", func(t *testing.T) {
		var got int64 = -1
		h := OptionalAuth(stubVerifier{err: errors.New("expired")})(capture(&got))

		r := httptest.NewRequest(http.MethodGet, "/api/motivations/public", nil)
		r.Header.Set("Authorization", "Bearer junk")
		w := httptest.NewRecorder()
		h(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, got)
	})
}
