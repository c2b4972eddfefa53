package middleware

import (
	"net/http"
	"time"

	"github.com/nkiryanov/accountshop/internal/handlers/userctx"
)

type logger interface {
	Info(msg string, args ...any)
}

type logWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *logWriter) Write(p []byte) (int, error) {
	size, err := w.ResponseWriter.Write(p)
	w.size += size
	return size, err
}

func (w *logWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

// LoggerMiddleware writes one access log line per request.
// Only the path is logged: query strings may carry tokens or emails.
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, tracker := userctx.Track(r.Context())
			lw := &logWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(lw, r.WithContext(ctx))

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
				"status", lw.status,
				"size", lw.size,
			}
			if userID, ok := tracker.UserID(); ok {
				args = append(args, "user_id", userID.String())
			}

			l.Info("got HTTP request", args...)
		})
	}
}
