package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/apperrors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	return body
}

func TestWriteErrorIncludesDescription(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.New(apperrors.CodeBadRequest, "page must be positive"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "bad_request" {
		t.Fatalf("error = %q", body["error"])
	}
	if body["error_description"] != "page must be positive" {
		t.Fatalf("error_description = %q", body["error_description"])
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "internal",
			err:    apperrors.Wrap(apperrors.CodeInternal, "report generation failed", errors.New("pq: relation missing")),
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
		{
			name:   "source unavailable",
			err:    apperrors.Wrap(apperrors.CodeUnavailable, "disposals query failed", errors.New("dial tcp: refused")),
			status: http.StatusBadGateway,
			code:   "source_unavailable",
		},
		{
			name:   "uncoded error defaults to internal",
			err:    errors.New("nil pointer somewhere"),
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			body := decodeBody(t, rec)
			if body["error"] != tc.code {
				t.Fatalf("error = %q, want %q", body["error"], tc.code)
			}
			if _, ok := body["error_description"]; ok {
				t.Fatalf("description leaked: %q", body["error_description"])
			}
		})
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}
