package handlers

import (
	"net/http"

	"github.com/wabridge/wa-relay-api/messages"
)

// Messages is a HTTP server for reading the message log.
type Messages struct {
	service messages.Service
}

func NewMessages(service messages.Service) *Messages {
	return &Messages{service}
}

// List returns logged messages, newest first. The optional accountId query
// parameter filters by account.
func (s *Messages) List() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		limit, offset := listParams(r)

		var accountID *int64
		if v := r.FormValue("accountId"); v != "" {
			id, err := parseID("accountId", v)
			if err != nil {
				handleError(rw, r, err)
				return
			}
			accountID = &id
		}

		res, err := s.service.List(limit, offset, accountID)
		if err != nil {
			handleError(rw, r, err)
			return
		}

		handleJsonResponse(rw, http.StatusOK, res)
	})
}
