package handlers

import (
	"net/http"

	"github.com/wabridge/wa-relay-api/relay"
)

// Relay is a HTTP server for sending messages through the active account.
type Relay struct {
	service relay.Service
}

func NewRelay(service relay.Service) *Relay {
	return &Relay{service}
}

func (s *Relay) Send() http.Handler {
	return http.HandlerFunc(s.SendFunc)
}

// SendFunc reads phone and content from a JSON or form body.
func (s *Relay) SendFunc(rw http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if _, err := s.service.Send(r.Context(), fields["phone"], fields["content"]); err != nil {
		handleError(rw, r, err)
		return
	}

	handleTextResponse(rw, http.StatusOK, "Message sent")
}
