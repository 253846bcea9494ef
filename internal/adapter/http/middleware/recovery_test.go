package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecoveryWritesErrorAndLogs(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") || !strings.Contains(buf.String(), `"path":"/panic"`) {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusAccepted, `"level":"info"`},
		{http.StatusNotFound, `"level":"warn"`},
		{http.StatusServiceUnavailable, `"level":"error"`},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		handler := RequestLogger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("{}"))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))

		out := buf.String()
		if !strings.Contains(out, tt.level) || !strings.Contains(out, `"bytes":2`) {
			t.Fatalf("status %d: unexpected log %s", tt.status, out)
		}
	}
}

func TestRequestLoggerInjectsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.Contains(first, "inside handler") || !strings.Contains(first, `"path":"/api/v1/accounts"`) {
		t.Fatalf("expected handler log to carry request fields, got %s", first)
	}
	if !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected implicit 200, got %s", buf.String())
	}
}

func TestRecoveryRepanicsOnAbortHandler(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stream", nil))
}
