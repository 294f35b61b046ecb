// Package errors provides an API for errors across the application.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ValidationError means a required input field was missing or empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidPhoneFormatError means a destination is not 8 to 15 digits with a
// non-zero leading digit.
type InvalidPhoneFormatError struct {
	Phone string
}

func (e *InvalidPhoneFormatError) Error() string {
	return "Invalid phone number format"
}

// NoActiveAccountError means a send was attempted while no account is active.
type NoActiveAccountError struct{}

func (e *NoActiveAccountError) Error() string {
	return "No active account"
}

var ErrNoActiveAccount = &NoActiveAccountError{}

// StorageError wraps a failed read or write against the database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RelayError means the gateway rejected the message or could not be reached.
// Payload holds the gateway's error body verbatim when there was one.
type RelayError struct {
	Payload string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Payload != "" {
		return e.Payload
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "relay failed"
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// StatusCode maps an error to the HTTP status it should be reported with.
func StatusCode(err error) int {
	var (
		reqErr   *RequestError
		valErr   *ValidationError
		phoneErr *InvalidPhoneFormatError
		noActErr *NoActiveAccountError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.As(err, &reqErr):
		return reqErr.StatusCode
	case stderrors.As(err, &valErr), stderrors.As(err, &phoneErr), stderrors.As(err, &noActErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

// IsGatewayConnectionError reports whether err means the gateway could not be
// reached at all, as opposed to the gateway answering with an error.
// A cancelled request is never a connection error, the caller went away.
func IsGatewayConnectionError(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return false
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// http.Client wraps every failure in a *url.Error, look at its cause
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		err = urlErr.Err
	}

	var opErr *net.OpError
	if stderrors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return strings.Contains(err.Error(), "connection refused")
}
