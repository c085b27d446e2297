package auth

import (
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/httpx"
	"bookreview/internal/logging"
	"bookreview/internal/web"
)

const invalidCredentialsMessage = "Invalid login credentials"

type HTTPHandler struct {
	service      *Service
	render       *web.Renderer
	cookieSecure bool
}

func NewHTTPHandler(service *Service, render *web.Renderer, cookieSecure bool) *HTTPHandler {
	return &HTTPHandler{service: service, render: render, cookieSecure: cookieSecure}
}

// LoginPage handles GET /login
func (h *HTTPHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login", web.Page{Title: "Log in"})
}

// Login handles POST /login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	identifier := strings.TrimSpace(r.PostForm.Get("identifier"))
	password := r.PostForm.Get("password")

	if identifier == "" || password == "" {
		h.renderFailed(w, r)
		return
	}

	token, _, err := h.service.Login(r.Context(), identifier, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.renderFailed(w, r)
			return
		}
		h.render.ServerError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, httpx.SessionCookieName, token, h.service.TTL(), h.cookieSecure)
	httpx.SeeOther(w, r, "/")
}

func (h *HTTPHandler) renderFailed(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusUnauthorized, "login", web.Page{
		Title:    "Log in",
		Form:     r.PostForm,
		Messages: []string{invalidCredentialsMessage},
	})
}

// Logout handles GET and POST /logout
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := httpx.SessionToken(r, httpx.SessionCookieName)
	if err := h.service.Logout(r.Context(), token); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("logout could not revoke token")
	}
	httpx.ClearSessionCookie(w, httpx.SessionCookieName, h.cookieSecure)
	httpx.SeeOther(w, r, "/login")
}
