package book

import (
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/httpx"
	"bookreview/internal/logging"
	"bookreview/internal/metrics"
	"bookreview/internal/web"
)

type HTTPHandler struct {
	service *Service
	render  *web.Renderer
}

func NewHTTPHandler(service *Service, render *web.Renderer) *HTTPHandler {
	return &HTTPHandler{service: service, render: render}
}

// Index handles GET /
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	if httpx.PrincipalFrom(r) == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	books, err := h.service.Recommendations(r.Context())
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "index", web.Page{Title: "Home", Data: books})
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	books, err := h.service.List(r.Context(), q)
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "book_list", web.Page{
		Title: "Books",
		Data:  ListPage{Query: q, Books: books},
	})
}

// Detail handles GET /books/{id}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.render.NotFound(w, r)
			return
		}
		h.render.ServerError(w, r, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "book_detail", web.Page{
		Title: detail.Book.Title,
		Data:  detail,
	})
}

// Delete handles GET and POST /books/{id}/delete. Only superusers may
// delete; everyone else is sent back to the list.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !httpx.IsSuperuser(r) {
		httpx.SeeOther(w, r, "/books")
		return
	}

	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.render.NotFound(w, r)
			return
		}
		h.render.ServerError(w, r, err)
		return
	}

	metrics.BooksDeleted.Inc()
	logging.Ctx(r.Context()).Info().
		Str("book_id", id).
		Str("user_id", httpx.UserIDFrom(r)).
		Msg("book deleted")
	httpx.SeeOther(w, r, "/books")
}
