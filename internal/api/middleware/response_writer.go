package middleware

import "net/http"

// responseWriter captures the status code written by the handler chain so
// the logging, metrics and tracing middleware can report it.
type responseWriter struct {
	http.ResponseWriter

	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
