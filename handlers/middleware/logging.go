package middleware

import (
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-Id"

type responseSnooper struct {
	w      http.ResponseWriter
	status int
	size   int
	start  time.Time
}

func (l *responseSnooper) Write(b []byte) (int, error) {
	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *responseSnooper) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func makeSnooper(w http.ResponseWriter) (*responseSnooper, http.ResponseWriter) {
	snooper := &responseSnooper{
		w:      w,
		status: http.StatusOK,
		start:  time.Now(),
	}

	hooks := httpsnoop.Hooks{
		Write: func(httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return snooper.Write
		},
		WriteHeader: func(httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return snooper.WriteHeader
		},
	}

	return snooper, httpsnoop.Wrap(w, hooks)
}

// LoggingHandler logs every request once it has been served. Requests
// without an X-Request-Id header get a generated one, echoed back in the
// response.
func LoggingHandler(h http.Handler) http.Handler {
	return LoggingHandlerWithLogger(h, logrus.StandardLogger())
}

func LoggingHandlerWithLogger(h http.Handler, logger *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set(RequestIDHeader, requestID)
		}
		rw.Header().Set(RequestIDHeader, requestID)

		snooper, rw := makeSnooper(rw)

		h.ServeHTTP(rw, r)

		fields := logrus.Fields{
			"requestId":  requestID,
			"method":     r.Method,
			"path":       r.RequestURI,
			"remote":     r.RemoteAddr,
			"user-agent": r.UserAgent(),
			"status":     snooper.status,
			"size":       snooper.size,
			"duration":   float64(time.Since(snooper.start).Microseconds()) / float64(1000),
		}

		logger.WithFields(fields).Info("HTTP request")
	})
}
