package author

import (
	"errors"
	"net/http"

	"bookreview/internal/web"
)

type HTTPHandler struct {
	service *Service
	render  *web.Renderer
}

func NewHTTPHandler(service *Service, render *web.Renderer) *HTTPHandler {
	return &HTTPHandler{service: service, render: render}
}

// Detail handles GET /authors/{id}
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
	h.render.Render(w, r, http.StatusOK, "author_detail", web.Page{
		Title: detail.Author.Name,
		Data:  detail,
	})
}
