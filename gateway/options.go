package gateway

import (
	"net/http"
	"time"
)

type ClientOption func(*GupshupClient)

func WithURL(url string) ClientOption {
	return func(c *GupshupClient) {
		c.url = url
	}
}

// WithChannel sets the form channel field.
func WithChannel(channel string) ClientOption {
	return func(c *GupshupClient) {
		c.channel = channel
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *GupshupClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying client, its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *GupshupClient) {
		c.httpClient = hc
	}
}
