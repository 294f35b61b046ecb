package handlers

import (
	"net/http"
)

func HandleHealthReady(rw http.ResponseWriter, r *http.Request) {
	rw.WriteHeader(http.StatusOK)
}

// Liveness reports whatever getLiveness returns as JSON.
func Liveness(getLiveness func() (interface{}, error)) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		liveness, err := getLiveness()
		if err != nil {
			handleError(rw, r, err)
			return
		}
		handleJsonResponse(rw, http.StatusOK, liveness)
	})
}
