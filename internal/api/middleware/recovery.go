package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/daap14/stockroom/internal/api/response"
)

// Recovery is middleware that turns a handler panic into a 500 envelope. If the
// handler had already started its response, the panic is only logged: a second
// status line cannot be sent. http.ErrAbortHandler is re-raised so the server
// can abort the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			requestID := GetRequestID(r.Context())
			started := ww.Status() != 0
			slog.Error("panic recovered",
				"error", rec,
				"requestId", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"responseStarted", started,
				"stack", string(debug.Stack()),
			)
			if !started {
				response.Err(ww, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
