package httpx

import (
	"context"
	"net/http"

	"bookreview/internal/logging"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated user behind a request.
type Principal struct {
	ID          string
	Username    string
	IsSuperuser bool
}

// ContextWithPrincipal returns a new context carrying p.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns nil for anonymous requests.
func PrincipalFrom(r *http.Request) *Principal {
	return PrincipalFromContext(r.Context())
}

func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}

// UserIDFrom retrieves the authenticated user id, or "".
func UserIDFrom(r *http.Request) string {
	if p := PrincipalFrom(r); p != nil {
		return p.ID
	}
	return ""
}

func IsSuperuser(r *http.Request) bool {
	p := PrincipalFrom(r)
	return p != nil && p.IsSuperuser
}

// RequestIDFrom retrieves the request id from the request context.
func RequestIDFrom(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}
