package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/wabridge/wa-relay-api/handlers"
)

func TestHealth(t *testing.T) {
	res := send(http.HandlerFunc(handlers.HandleHealthReady), http.MethodGet, "/health/ready", nil)
	assertStatusCode(t, res, http.StatusOK)

	live := handlers.Liveness(func() (interface{}, error) {
		return map[string]int{"OpenConnections": 1}, nil
	})
	res = send(live, http.MethodGet, "/health/liveness", nil)
	assertStatusCode(t, res, http.StatusOK)
	assertBody(t, res, `{"OpenConnections":1}`)

	dead := handlers.Liveness(func() (interface{}, error) {
		return nil, fmt.Errorf("database is gone")
	})
	res = send(dead, http.MethodGet, "/health/liveness", nil)
	assertStatusCode(t, res, http.StatusInternalServerError)
	assertBody(t, res, "Error")
}

func TestDebug(t *testing.T) {
	h := handlers.Debug("https://example.com/repo", "1.2.3", "abc123", "today")

	res := sendWithHeaders(h, http.MethodGet, "/debug", nil, map[string]string{"X-Test": "yes"})
	assertStatusCode(t, res, http.StatusOK)

	body := readBody(t, res)
	for _, want := range []string{"url: GET /debug", "X-Test: yes", "version: 1.2.3", "https://example.com/repo/commit/abc123"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected debug output to contain %q, got:\n%s", want, body)
		}
	}
}
