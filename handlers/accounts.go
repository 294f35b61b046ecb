package handlers

import (
	"net/http"

	"github.com/wabridge/wa-relay-api/accounts"
)

// Accounts is a HTTP server for account management.
// It provides list, create, details and switch APIs.
type Accounts struct {
	service accounts.Service
}

// NewAccounts initiates a new accounts server.
func NewAccounts(service accounts.Service) *Accounts {
	return &Accounts{service}
}

func (s *Accounts) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Accounts) Create() http.Handler {
	return http.HandlerFunc(s.CreateFunc)
}

func (s *Accounts) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *Accounts) Active() http.Handler {
	return http.HandlerFunc(s.ActiveFunc)
}

func (s *Accounts) Switch() http.Handler {
	return http.HandlerFunc(s.SwitchFunc)
}
