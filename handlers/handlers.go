// Package handlers provides HTTP handlers for the services across the application.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/errors"
)

const maxBodySize = 1 << 20

var InvalidBodyError = &errors.RequestError{
	StatusCode: http.StatusBadRequest,
	Err:        fmt.Errorf("invalid body"),
}

var EmptyBodyError = &errors.RequestError{
	StatusCode: http.StatusBadRequest,
	Err:        fmt.Errorf("empty body"),
}

// handleError is a helper function for unified HTTP error handling.
// Client errors are reported as they are. Relay failures include the
// gateway's message, other server side failures are not detailed.
func handleError(rw http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusCode(err)

	entry := log.WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
		"error":  err,
	})

	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	var (
		reqErr     *errors.RequestError
		relayErr   *errors.RelayError
		storageErr *errors.StorageError
	)

	switch {
	case stderrors.As(err, &relayErr):
		http.Error(rw, "Send failed: "+relayErr.Error(), status)
	case stderrors.As(err, &storageErr):
		http.Error(rw, "Database error", status)
	case status < http.StatusInternalServerError, stderrors.As(err, &reqErr):
		http.Error(rw, err.Error(), status)
	default:
		http.Error(rw, "Error", status)
	}
}

// handleJsonResponse is a helper function for unified JSON response handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Error while encoding JSON response")
	}
}

// handleTextResponse writes a plain text confirmation.
func handleTextResponse(rw http.ResponseWriter, status int, text string) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.Header().Set("X-Content-Type-Options", "nosniff")
	rw.WriteHeader(status)
	fmt.Fprintln(rw, text)
}

func checkNonEmptyBody(r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody {
		return EmptyBodyError
	}
	return nil
}

// readFields returns the top level fields of a JSON object body or of a
// form-encoded body as strings. JSON numbers keep their literal form.
func readFields(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, InvalidBodyError
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		return fields, nil
	}

	raw := map[string]interface{}{}

	dec := json.NewDecoder(io.LimitReader(bodyOrEmpty(r), maxBodySize))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return map[string]string{}, nil
		}
		return nil, InvalidBodyError
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = v
		case json.Number:
			fields[k] = v.String()
		case bool:
			fields[k] = strconv.FormatBool(v)
		default:
			return nil, &errors.RequestError{
				StatusCode: http.StatusBadRequest,
				Err:        fmt.Errorf("invalid value for %s", k),
			}
		}
	}

	return fields, nil
}

func bodyOrEmpty(r *http.Request) io.ReadCloser {
	if r.Body == nil {
		return http.NoBody
	}
	return r.Body
}

// listParams reads limit and offset from the query, invalid values fall back to 0.
func listParams(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err = strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	return limit, offset
}

func parseID(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, &errors.ValidationError{Field: field}
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid %s", field),
		}
	}

	return id, nil
}
