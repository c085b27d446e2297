package httpx

import (
	"context"
	"errors"
	"net/http"

	"bookreview/internal/logging"
)

// ErrNoSession marks a token that does not identify a live session:
// malformed, expired, revoked, or owned by a deleted user.
var ErrNoSession = errors.New("no valid session")

// SessionResolver turns a session token into the user it belongs to.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*Principal, error)
}

// SessionMiddleware attaches the Principal for a valid session cookie.
// Requests without a cookie, or whose token fails with ErrNoSession, continue
// anonymously. Any other resolver error is logged and answered with page.
func SessionMiddleware(cookieName string, resolver SessionResolver, page ErrorPage) func(http.Handler) http.Handler {
	if page == nil {
		page = plainErrorPage
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.ResolveSession(r.Context(), token)
			switch {
			case errors.Is(err, ErrNoSession):
				logging.Ctx(r.Context()).Debug().Err(err).Msg("session rejected")
				next.ServeHTTP(w, r)
				return
			case err != nil:
				logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("session lookup failed")
				page(w, r)
				return
			case principal == nil:
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFrom(r) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnonymous sends already authenticated users to the home page.
func RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFrom(r) != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
