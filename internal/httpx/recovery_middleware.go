package httpx

import (
	"net/http"
	"runtime/debug"

	"bookreview/internal/logging"
)

// ErrorPage writes a generic 500 response. Middlewares log the cause
// themselves before calling it.
type ErrorPage func(w http.ResponseWriter, r *http.Request)

func plainErrorPage(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// RecoveryMiddleware turns a panic into a logged 500 rendered by page.
// A nil page falls back to a plain text response.
func RecoveryMiddleware(page ErrorPage) func(http.Handler) http.Handler {
	if page == nil {
		page = plainErrorPage
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logging.Ctx(r.Context()).Error().
						Interface("panic", err).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					var wroteHeader bool
					if rw, ok := w.(*responseWriter); ok {
						wroteHeader = rw.wroteHeader()
					}

					if !wroteHeader {
						page(w, r)
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
