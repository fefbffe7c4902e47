package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		title  string
	}{
		{fmt.Errorf("roles: %w", ErrNotFound), http.StatusNotFound, "Not Found"},
		{fmt.Errorf("roles: %w", ErrDuplicate), http.StatusConflict, "Duplicate"},
		{fmt.Errorf("roles: %w: bad name", ErrValidation), http.StatusBadRequest, "Validation Failed"},
		{fmt.Errorf("roles: in use: %w", ErrConflict), http.StatusConflict, "Conflict"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "Internal Error"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)

		require.Equal(t, tc.status, rr.Code)
		require.Equal(t, tc.status, StatusOf(tc.err))
		require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

		var problem ProblemDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
		require.Equal(t, tc.title, problem.Title)
		require.Equal(t, tc.status, problem.Status)
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("pg: password authentication failed"))
	require.NotContains(t, rr.Body.String(), "password")
}

func TestDecodeJSONRejectsUnknownFieldsAndTrailingData(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	var p payload

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(req, &p))
	require.Equal(t, "a", p.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	require.Error(t, DecodeJSON(req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	require.Error(t, DecodeJSON(req, &p))
}
