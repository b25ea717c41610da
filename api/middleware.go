package api

import (
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// actorHeader carries the acting user's ID. Authentication itself is handled
// upstream; this service trusts the gateway-provided identity.
const actorHeader = "X-User-ID"

// actorID extracts the acting user from the request headers
func actorID(r *http.Request) (int64, bool) {
	raw := r.Header.Get(actorHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requireActor rejects requests without a valid actor header
func requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorID(r); !ok {
			writeJSON(w, http.StatusUnauthorized, Response{
				ResponseCode:    "UNAUTHORIZED",
				ResponseMessage: "Missing or invalid " + actorHeader + " header",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request with method, path, status and duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.status,
			"duration": time.Since(start).String(),
		}).Info("Handled request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
