// AngelaMos | 2026
// recovery.go

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

// Recovery is the final safety net: a panicking handler logs with its
// stack and the client gets a generic 500 instead of a dropped
// connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					core.JSONError(
						w,
						core.NewAppError(
							nil,
							"something went wrong",
							http.StatusInternalServerError,
							"INTERNAL",
						),
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
