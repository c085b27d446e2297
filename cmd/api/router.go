package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookreview/internal/auth"
	"bookreview/internal/author"
	"bookreview/internal/book"
	"bookreview/internal/httpx"
	"bookreview/internal/review"
	"bookreview/internal/user"
	"bookreview/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routes struct {
	auth    *auth.HTTPHandler
	users   *user.HTTPHandler
	books   *book.HTTPHandler
	authors *author.HTTPHandler
	reviews *review.HTTPHandler

	sessions httpx.SessionResolver
	limiter  *httpx.RateLimitMiddleware
	render   *web.Renderer

	// ready reports whether the database answers; nil means always ready.
	ready func(ctx context.Context) error

	// media serves locally stored covers under mediaURL. Nil when covers
	// live in a remote store.
	media    http.Handler
	mediaURL string

	maxBodyBytes int64
	hsts         bool
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware(rt.render.InternalError))
	r.Use(httpx.SecurityHeadersMiddleware(rt.hsts))
	r.Use(httpx.RequestSizeLimitMiddleware(rt.maxBodyBytes))
	r.Use(httpx.SessionMiddleware(httpx.SessionCookieName, rt.sessions, rt.render.InternalError))

	r.NotFound(rt.render.NotFound)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if rt.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := rt.ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireAnonymous)
		r.Get("/login", rt.auth.LoginPage)
		r.Get("/register", rt.users.RegisterPage)

		r.Group(func(r chi.Router) {
			if rt.limiter != nil {
				r.Use(rt.limiter.Middleware)
			}
			r.Post("/login", rt.auth.Login)
			r.Post("/register", rt.users.Register)
		})
	})

	r.Get("/logout", rt.auth.Logout)
	r.Post("/logout", rt.auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireLogin)
		r.Get("/", rt.books.Index)
		r.Get("/profile", rt.reviews.Profile)
		r.Get("/books/{id}/review", rt.reviews.AddReviewPage)
		r.Post("/books/{id}/review", rt.reviews.AddReview)
		r.Get("/reviews/new", rt.reviews.ComprehensivePage)
		r.Post("/reviews/new", rt.reviews.Comprehensive)
	})

	r.Get("/books", rt.books.List)
	r.Get("/books/{id}", rt.books.Detail)
	r.Get("/books/{id}/delete", rt.books.Delete)
	r.Post("/books/{id}/delete", rt.books.Delete)
	r.Get("/authors/{id}", rt.authors.Detail)

	if rt.media != nil {
		prefix := "/" + strings.Trim(rt.mediaURL, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, rt.media))
	}

	return r
}
