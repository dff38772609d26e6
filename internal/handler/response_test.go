package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			"validation maps to 400",
			apperror.Validation("title", "title is required"),
			http.StatusBadRequest,
			`{"success":false,"message":"title is required","field":"title"}`,
		},
		{
			"not found maps to 404",
			apperror.NotFound("goal"),
			http.StatusNotFound,
			`{"success":false,"message":"goal not found"}`,
		},
		{
			"forbidden maps to 403",
			apperror.Forbidden("not yours"),
			http.StatusForbidden,
			`{"success":false,"message":"not yours"}`,
		},
		{
			"conflict maps to 409",
			apperror.Conflict("already liked"),
			http.StatusConflict,
			`{"success":false,"message":"already liked"}`,
		},
		{
			"store errors hide internals",
			apperror.Store(errors.New("dial tcp: connection refused")),
			http.StatusInternalServerError,
			`{"success":false,"message":"internal server error"}`,
		},
		{
			"unknown errors hide internals",
			errors.New("boom"),
			http.StatusInternalServerError,
			`{"success":false,"message":"internal server error"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestWriteJSONEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, "goal created", map[string]any{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"goal created","data":{"id":1}}`, w.Body.String())
}
