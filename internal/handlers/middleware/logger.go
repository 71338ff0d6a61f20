package middleware

import (
	"net/http"
	"time"
)

type logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Response writer remembering first written status and body size
type logWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	size, err := w.ResponseWriter.Write(p)
	w.size += size
	return size, err
}

func (w *logWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
	}
}

// Unwrap lets http.ResponseController reach the original writer
func (w *logWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Log every request. Server errors are logged with error level
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := &logWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(lw, r)

			log := l.Info
			if lw.status >= http.StatusInternalServerError {
				log = l.Error
			}
			log(
				"got HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"duration", time.Since(start),
				"status", lw.status,
				"size", lw.size,
				"remote", r.RemoteAddr,
			)
		})
	}
}
