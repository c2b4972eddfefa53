package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/accountshop/internal/models"
)

type loggerFunc func(string, ...any)

func (f loggerFunc) Info(msg string, v ...any) { f(msg, v...) }

// Log call captured by loggerFunc
type logLine struct {
	msg  string
	args []any
}

func (l logLine) field(key string) (any, bool) {
	for i := 0; i+1 < len(l.args); i += 2 {
		if l.args[i] == key {
			return l.args[i+1], true
		}
	}
	return nil, false
}

func TestLoggerMiddleware(t *testing.T) {
	userID := uuid.New()

	teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, err := w.Write([]byte("hi"))
		require.NoError(t, err, "should write response")
	})

	withUser := AuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.User, error) {
		return models.User{ID: userID, Username: "gamer"}, nil
	}))

	serve := func(t *testing.T, h http.Handler, target string) (*http.Response, []logLine) {
		var lines []logLine
		l := loggerFunc(func(m string, v ...any) {
			lines = append(lines, logLine{msg: m, args: v})
		})

		rec := httptest.NewRecorder()
		LoggerMiddleware(l)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		return rec.Result(), lines
	}

	t.Run("anonymous request", func(t *testing.T) {
		resp, lines := serve(t, teapot, "/test")

		require.Equal(t, http.StatusTeapot, resp.StatusCode)
		require.Len(t, lines, 1, "logger should be called once")
		require.Equal(t, "got HTTP request", lines[0].msg)
		require.Len(t, lines[0].args, 10, "logger should log 5 fields")
		require.Equal(t, []any{"method", "GET", "path", "/test"}, lines[0].args[:4])
		require.Equal(t, "duration", lines[0].args[4])
		require.NotEmpty(t, lines[0].args[5], "duration should not be empty")
		require.Equal(t, []any{"status", http.StatusTeapot, "size", 2}, lines[0].args[6:])

		_, ok := lines[0].field("user_id")
		require.False(t, ok, "anonymous request has no user")
	})

	t.Run("query not logged", func(t *testing.T) {
		_, lines := serve(t, teapot, "/api/auth/refresh?refreshToken=secret")

		require.Len(t, lines, 1)
		path, _ := lines[0].field("path")
		require.Equal(t, "/api/auth/refresh", path)
		require.NotContains(t, lines[0].args, "/api/auth/refresh?refreshToken=secret")
	})

	t.Run("authenticated request", func(t *testing.T) {
		resp, lines := serve(t, withUser(teapot), "/orders")

		require.Equal(t, http.StatusTeapot, resp.StatusCode)
		require.Len(t, lines, 1)
		require.Len(t, lines[0].args, 12, "user id should be logged")

		got, ok := lines[0].field("user_id")
		require.True(t, ok)
		require.Equal(t, userID.String(), got)
	})

	t.Run("status defaults to ok", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		})

		_, lines := serve(t, h, "/")

		status, _ := lines[0].field("status")
		require.Equal(t, http.StatusOK, status)
	})
}
