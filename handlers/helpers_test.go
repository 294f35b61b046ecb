package handlers_test

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func send(h http.Handler, method, path string, body io.Reader) *http.Response {
	return sendWithHeaders(h, method, path, body, map[string]string{"Content-Type": "application/json"})
}

func sendForm(h http.Handler, method, path, form string) *http.Response {
	return sendWithHeaders(h, method, path, strings.NewReader(form), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

func sendWithHeaders(h http.Handler, method, path string, body io.Reader, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, path, body)

	for hk, hv := range headers {
		req.Header.Set(hk, hv)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Result()
}

func assertStatusCode(t *testing.T, res *http.Response, expected int) {
	t.Helper()
	if res.StatusCode != expected {
		t.Fatalf("expected HTTP status %d, got %d: %s", expected, res.StatusCode, readBody(t, res))
	}
}

func assertBody(t *testing.T, res *http.Response, expected string) {
	t.Helper()
	if got := readBody(t, res); got != expected {
		t.Fatalf("expected body %q, got %q", expected, got)
	}
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	bs, err := ioutil.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(bs))
}

func fromJsonBody(t *testing.T, res *http.Response, v interface{}) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}
