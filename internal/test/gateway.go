package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// GatewayRequest is what a fake gateway received.
type GatewayRequest struct {
	APIKey string
	Form   url.Values
}

// Gateway is an httptest server standing in for the messaging gateway.
type Gateway struct {
	*httptest.Server

	mu       sync.Mutex
	requests []GatewayRequest

	Status int
	Body   string
}

// NewGateway starts a fake gateway answering with status and body. It is
// closed when the test finishes.
func NewGateway(t *testing.T, status int, body string) *Gateway {
	t.Helper()

	g := &Gateway{Status: status, Body: body}

	g.Server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}

		g.mu.Lock()
		g.requests = append(g.requests, GatewayRequest{
			APIKey: r.Header.Get("apikey"),
			Form:   r.PostForm,
		})
		status, body := g.Status, g.Body
		g.mu.Unlock()

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(status)
		io.WriteString(rw, body) // nolint
	}))

	t.Cleanup(g.Close)

	return g
}

// Requests returns a copy of the requests received so far.
func (g *Gateway) Requests() []GatewayRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	rr := make([]GatewayRequest, len(g.requests))
	copy(rr, g.requests)
	return rr
}

// Respond changes the answer for subsequent requests.
func (g *Gateway) Respond(status int, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Status, g.Body = status, body
}
