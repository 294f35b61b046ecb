package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestLoggingHandler(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	h := LoggingHandlerWithLogger(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusTeapot)
		io.WriteString(rw, "short and stout") // nolint
	}), logger)

	t.Run("logs status and size", func(t *testing.T) {
		hook.Reset()

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/accounts?limit=1", nil))

		e := hook.LastEntry()
		if e == nil {
			t.Fatal("expected a log entry")
		}

		if e.Data["status"] != http.StatusTeapot {
			t.Errorf("expected status %d, got %v", http.StatusTeapot, e.Data["status"])
		}

		if e.Data["size"] != len("short and stout") {
			t.Errorf("expected size %d, got %v", len("short and stout"), e.Data["size"])
		}

		if e.Data["path"] != "/accounts?limit=1" {
			t.Errorf("unexpected path %v", e.Data["path"])
		}

		id := rr.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected a generated request id, got %q", id)
		}

		if e.Data["requestId"] != id {
			t.Errorf("expected logged request id %q, got %v", id, e.Data["requestId"])
		}
	})

	t.Run("keeps an incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("expected request id to be echoed, got %q", got)
		}
	})
}
