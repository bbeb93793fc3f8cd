package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLoggerAssignsID(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
	}{
		{name: "generates an id", inbound: ""},
		{name: "reuses the inbound id", inbound: "req-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					seen = RequestIDFrom(r.Context())
					w.WriteHeader(http.StatusTeapot)
				}),
			)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if seen == "" {
				t.Fatal("handler saw no request id")
			}
			if tt.inbound != "" && seen != tt.inbound {
				t.Errorf("request id = %q, want %q", seen, tt.inbound)
			}
			if got := rr.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response header = %q, want %q", got, seen)
			}
			if rr.Code != http.StatusTeapot {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
			}
		})
	}
}

func TestRecoveryLogsRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	h := RequestLogger(logger)(Recovery(logger)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}),
	))

	req := httptest.NewRequest(http.MethodPost, "/api/file-changes", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["request_id"] != "req-7" {
		t.Errorf("body request_id = %v, want req-7", body["request_id"])
	}
	if !strings.Contains(logs.String(), `"request_id":"req-7"`) || !strings.Contains(logs.String(), "handler panicked") {
		t.Errorf("panic log missing request id: %s", logs.String())
	}
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	if id := RequestIDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Errorf("RequestIDFrom = %q, want empty", id)
	}
}
