package handlers

import (
	"net/http"

	gorilla "github.com/gorilla/handlers"
	"github.com/wabridge/wa-relay-api/handlers/middleware"
)

func UseCors(h http.Handler) http.Handler {
	return gorilla.CORS(
		gorilla.AllowedOrigins([]string{"*"}),
		gorilla.AllowedHeaders([]string{"Content-Type", "Idempotency-Key", middleware.RequestIDHeader}),
		gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(h)
}

func UseLogging(h http.Handler) http.Handler {
	return middleware.LoggingHandler(h)
}

func UseCompress(h http.Handler) http.Handler {
	return gorilla.CompressHandler(h)
}

func UseIdempotency(h http.Handler, opts IdempotencyHandlerOptions, store IdempotencyStore) http.Handler {
	return IdempotencyHandler(h, opts, store)
}
