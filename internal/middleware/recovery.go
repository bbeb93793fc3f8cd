package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"filetrack/internal/httputil"
)

// Recovery turns a handler panic into a 500 problem response.
// Mount it inside RequestLogger so the log line carries the request ID.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				id := RequestIDFrom(r.Context())
				logger.Error("handler panicked",
					"request_id", id,
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httputil.RespondErrorWithExtras(w, http.StatusInternalServerError, "internal server error",
					map[string]interface{}{"request_id": id})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
