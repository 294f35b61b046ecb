// Package gateway sends text messages through an HTTP messaging gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Message is a single outbound text message.
type Message struct {
	// Account credential, sent as the apikey header
	APIKey string
	// Sender number registered with the gateway
	Source      string
	Destination string
	Text        string
}

// Response is the gateway's answer to an accepted message.
type Response struct {
	StatusCode int
	Body       string
	// MessageID is set when the gateway returned one
	MessageID string
}

// Error is a response the gateway answered with a non-success status.
// Payload is the response body verbatim.
type Error struct {
	StatusCode int
	Payload    string
}

func (e *Error) Error() string {
	if e.Payload != "" {
		return e.Payload
	}
	return fmt.Sprintf("gateway responded with status %d", e.StatusCode)
}

type Client interface {
	Send(ctx context.Context, m Message) (*Response, error)
}

type textPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// encodeText serializes content the way the gateway expects the message
// field. HTML characters are left as they are.
func encodeText(text string) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(textPayload{Type: "text", Text: text}); err != nil {
		return "", err
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
