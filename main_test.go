package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wabridge/wa-relay-api/internal/test"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func send(h http.Handler, method, path, contentType string, body io.Reader, headers ...string) (int, string) {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	res := rr.Result()
	defer res.Body.Close()
	bs, _ := ioutil.ReadAll(res.Body)
	return res.StatusCode, strings.TrimSpace(string(bs))
}

func setupTestHandler(t *testing.T, setenv func()) (http.Handler, *test.Gateway) {
	t.Helper()

	gw := test.NewGateway(t, http.StatusAccepted, `{"status":"submitted","messageId":"msg-1"}`)
	t.Setenv("GATEWAY_URL", gw.URL)
	if setenv != nil {
		setenv()
	}

	cfg := test.LoadConfig(t)
	db := test.GetDatabase(t, cfg)

	h, cleanup, err := setupHandler(cfg, db)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)

	return h, gw
}

func TestRelayFlow(t *testing.T) {
	h, gw := setupTestHandler(t, nil)

	const (
		jsonType = "application/json"
		formType = "application/x-www-form-urlencoded"
	)

	steps := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		headers     []string
		wantStatus  int
		wantBody    string
	}{
		{"no accounts", http.MethodGet, "/accounts", "", "", nil, http.StatusOK, "[]"},
		{"send without active account", http.MethodPost, "/send", jsonType, `{"phone":"15551234567","content":"hi"}`, nil, http.StatusBadRequest, "No active account"},
		{"create without api key", http.MethodPost, "/accounts", jsonType, `{"accountName":"Main","phoneNumber":"15550001"}`, nil, http.StatusBadRequest, "apiKey is required"},
		{"create", http.MethodPost, "/accounts", jsonType, `{"accountName":"Main","phoneNumber":"15550001","apiKey":"key-0001"}`, nil, http.StatusOK, "Account created"},
		{"create from form", http.MethodPost, "/accounts", formType, "accountName=Backup&phoneNumber=15550002&apiKey=key-0002", nil, http.StatusOK, "Account created"},
		{"switch with invalid id", http.MethodPost, "/accounts/switch", formType, "accountId=abc", nil, http.StatusBadRequest, "invalid accountId"},
		{"switch", http.MethodPost, "/accounts/switch", jsonType, `{"accountId":"2"}`, nil, http.StatusOK, "Active account switched"},
		{"send to invalid phone", http.MethodPost, "/send", jsonType, `{"phone":"+1 555","content":"hi"}`, nil, http.StatusBadRequest, "Invalid phone number format"},
		{"send", http.MethodPost, "/send", jsonType, `{"phone":"15551234567","content":"hi & bye"}`, []string{"Idempotency-Key", "send-1"}, http.StatusOK, "Message sent"},
		{"send with reused idempotency key", http.MethodPost, "/send", jsonType, `{"phone":"15551234567","content":"hi & bye"}`, []string{"Idempotency-Key", "send-1"}, http.StatusConflict, "Idempotency-Key conflict, key: send-1"},
		{"switch to unknown account", http.MethodPost, "/accounts/switch", jsonType, `{"accountId":999}`, nil, http.StatusOK, "Active account switched"},
		{"send after unknown switch", http.MethodPost, "/send", jsonType, `{"phone":"15551234567","content":"hi"}`, nil, http.StatusBadRequest, "No active account"},
		{"unknown route", http.MethodDelete, "/accounts", "", "", nil, http.StatusMethodNotAllowed, ""},
		{"ready", http.MethodGet, "/health/ready", "", "", nil, http.StatusOK, ""},
	}

	for _, s := range steps {
		status, body := send(h, s.method, s.path, s.contentType, strings.NewReader(s.body), s.headers...)
		if status != s.wantStatus {
			t.Fatalf("%s: expected status %d, got %d: %s", s.name, s.wantStatus, status, body)
		}
		if s.wantBody != "" && body != s.wantBody {
			t.Fatalf("%s: expected body %q, got %q", s.name, s.wantBody, body)
		}
	}

	rr := gw.Requests()
	if len(rr) != 1 {
		t.Fatalf("expected 1 gateway request, got %d", len(rr))
	}
	if rr[0].APIKey != "key-0002" {
		t.Errorf("expected the active account's api key, got %q", rr[0].APIKey)
	}
	if got := rr[0].Form.Get("source"); got != "15550002" {
		t.Errorf("expected source %q, got %q", "15550002", got)
	}
	if got := rr[0].Form.Get("message"); got != `{"type":"text","text":"hi & bye"}` {
		t.Errorf("unexpected message payload %q", got)
	}

	status, body := send(h, http.MethodGet, "/messages", "", nil)
	if status != http.StatusOK || !strings.Contains(body, `"phone":"15551234567"`) {
		t.Errorf("expected the sent message in the log, got %d: %s", status, body)
	}

	status, body = send(h, http.MethodGet, "/", "", nil)
	if status != http.StatusOK || !strings.Contains(body, "<html") {
		t.Errorf("expected the console page, got %d", status)
	}

	status, _ = send(h, http.MethodGet, "/health/liveness", "", nil)
	if status != http.StatusOK {
		t.Errorf("expected liveness to be OK, got %d", status)
	}
}

func TestSetupHandlerErrors(t *testing.T) {
	t.Run("unknown idempotency store", func(t *testing.T) {
		cfg := test.LoadConfig(t)
		db := test.GetDatabase(t, cfg)
		cfg.IdempotencyMiddlewareDatabaseType = "memcached"

		_, cleanup, err := setupHandler(cfg, db)
		defer cleanup()
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("redis without url", func(t *testing.T) {
		cfg := test.LoadConfig(t)
		db := test.GetDatabase(t, cfg)
		cfg.IdempotencyMiddlewareDatabaseType = "redis"

		_, cleanup, err := setupHandler(cfg, db)
		defer cleanup()
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("unknown encryption key type", func(t *testing.T) {
		cfg := test.LoadConfig(t)
		db := test.GetDatabase(t, cfg)
		cfg.EncryptionKeyType = "rot13"

		_, cleanup, err := setupHandler(cfg, db)
		defer cleanup()
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestSharedIdempotencyStore(t *testing.T) {
	h, _ := setupTestHandler(t, func() {
		t.Setenv("IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE", "shared")
	})

	body := func() io.Reader { return bytes.NewBufferString(`{"maintenanceMode":false}`) }

	status, _ := send(h, http.MethodPost, "/system/settings", "application/json", body(), "Idempotency-Key", "k1")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	status, _ = send(h, http.MethodPost, "/system/settings", "application/json", body(), "Idempotency-Key", "k1")
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}
