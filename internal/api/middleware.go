package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/meterdesk/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an ID, honoring one supplied by the
// caller.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLog logs method, path, and duration for every request.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  w.Header().Get(requestIDHeader),
		}).Debug("request handled")
	})
}
