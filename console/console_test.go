package console

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedConsole(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler("").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), "WhatsApp relay console") {
		t.Error("expected the console page")
	}

	rr = httptest.NewRecorder()
	Handler("").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing file, got %d", rr.Code)
	}
}

func TestStaticDirOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("custom console"), 0600); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	Handler(dir).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "custom console" {
		t.Errorf("expected the custom console, got %d %q", rr.Code, rr.Body.String())
	}
}
