package api

import (
	"net/http"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/felixge/httpsnoop"
	logger "github.com/sirupsen/logrus"
)

// loggingFilter is a component that implements the http.Filter interface and
// logs one line for every request it decorates.
type loggingFilter struct {
	log logger.FieldLogger
}

// NewLoggingFilter returns a component that implements the http.Filter
// interface and logs the method, path, status, and duration of every request.
func NewLoggingFilter(log logger.FieldLogger) libHTTP.Filter {
	return &loggingFilter{
		log: log,
	}
}

func (l *loggingFilter) Decorate(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := httpsnoop.CaptureMetricsFn(w, func(w http.ResponseWriter) {
			handle(w, r)
		})
		entry := l.log.WithFields(logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   metrics.Code,
			"duration": metrics.Duration.String(),
			"bytes":    metrics.Written,
		})
		if metrics.Code >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request handled")
	}
}
