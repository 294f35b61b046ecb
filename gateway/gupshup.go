package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultURL     = "https://api.gupshup.io/wa/api/v1/msg"
	DefaultChannel = "whatsapp"
	DefaultTimeout = 30 * time.Second

	// Cap on how much of a response body is read
	maxBodySize = 1 << 20
)

type GupshupClient struct {
	url        string
	channel    string
	httpClient *http.Client
}

func NewGupshupClient(opts ...ClientOption) *GupshupClient {
	c := &GupshupClient{
		url:        DefaultURL,
		channel:    DefaultChannel,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send posts m as a form-encoded request. Any 2xx status is a success.
// Other statuses return an *Error carrying the response body, transport
// failures are returned wrapped.
func (c *GupshupClient) Send(ctx context.Context, m Message) (*Response, error) {
	payload, err := encodeText(m.Text)
	if err != nil {
		return nil, fmt.Errorf("error while encoding message: %w", err)
	}

	form := url.Values{}
	form.Set("channel", c.channel)
	form.Set("source", m.Source)
	form.Set("destination", m.Destination)
	form.Set("message", payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error while creating gateway request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", m.APIKey)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while sending gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("error while reading gateway response: %w", err)
	}

	log.WithFields(log.Fields{
		"destination": m.Destination,
		"status":      resp.StatusCode,
		"duration":    time.Since(start).String(),
	}).Debug("Gateway responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Payload: string(body)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		MessageID:  messageID(body),
	}, nil
}

// messageID picks the id out of a {"status":"submitted","messageId":"..."} body.
func messageID(body []byte) string {
	var r struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return ""
	}
	return r.MessageID
}
