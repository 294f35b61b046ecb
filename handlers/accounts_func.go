package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ListFunc returns accounts as a JSON array.
func (s *Accounts) ListFunc(rw http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)

	res, err := s.service.List(limit, offset)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// CreateFunc reads accountName, phoneNumber and apiKey from a JSON or form body.
func (s *Accounts) CreateFunc(rw http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	_, err = s.service.Create(r.Context(), fields["accountName"], fields["phoneNumber"], fields["apiKey"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleTextResponse(rw, http.StatusOK, "Account created")
}

// DetailsFunc returns a single account. The id is read from the URL.
func (s *Accounts) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseID("id", mux.Vars(r)["id"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Details(id)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// ActiveFunc returns the active account with its api key masked.
func (s *Accounts) ActiveFunc(rw http.ResponseWriter, r *http.Request) {
	a, err := s.service.Active(r.Context())
	if err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Details(a.ID)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// SwitchFunc activates the account given as accountId. An unknown id leaves
// no account active and is still confirmed.
func (s *Accounts) SwitchFunc(rw http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	id, err := parseID("accountId", fields["accountId"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if _, err := s.service.Switch(r.Context(), id); err != nil {
		handleError(rw, r, err)
		return
	}

	handleTextResponse(rw, http.StatusOK, "Active account switched")
}
