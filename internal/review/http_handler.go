package review

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookreview/internal/book"
	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/logging"
	"bookreview/internal/platform/objectstore"
	"bookreview/internal/web"
)

const (
	multipartMemory    = 8 << 20
	persistenceFailure = "Your review could not be saved. Please try again."
)

type HTTPHandler struct {
	service *Service
	render  *web.Renderer
}

func NewHTTPHandler(service *Service, render *web.Renderer) *HTTPHandler {
	return &HTTPHandler{service: service, render: render}
}

// Profile handles GET /profile
func (h *HTTPHandler) Profile(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.Profile(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "profile", web.Page{Title: "Profile", Data: reviews})
}

// AddReviewPage handles GET /books/{id}/review
func (h *HTTPHandler) AddReviewPage(w http.ResponseWriter, r *http.Request) {
	b, ok := h.book(w, r)
	if !ok {
		return
	}
	h.render.Render(w, r, http.StatusOK, "add_review", web.Page{Title: "Review " + b.Title, Data: b})
}

// AddReview handles POST /books/{id}/review
func (h *HTTPHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	b, ok := h.book(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	rating, _ := strconv.Atoi(r.PostForm.Get("rating"))
	_, err := h.service.AddReview(r.Context(), AddInput{
		BookID:  b.ID,
		UserID:  httpx.UserIDFrom(r),
		Rating:  rating,
		Content: strings.TrimSpace(r.PostForm.Get("content")),
	})
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.render.Render(w, r, http.StatusUnprocessableEntity, "add_review", web.Page{
			Title:  "Review " + b.Title,
			Data:   b,
			Form:   r.PostForm,
			Errors: verr.Map(),
		})
		return
	case errors.Is(err, ErrUnknownBook):
		h.render.NotFound(w, r)
		return
	case err != nil:
		h.render.ServerError(w, r, err)
		return
	}

	httpx.SeeOther(w, r, "/books/"+b.ID)
}

// book loads the book named by the path, rendering 404 when it is missing.
func (h *HTTPHandler) book(w http.ResponseWriter, r *http.Request) (entity.Book, bool) {
	b, err := h.service.Book(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			h.render.NotFound(w, r)
			return entity.Book{}, false
		}
		h.render.ServerError(w, r, err)
		return entity.Book{}, false
	}
	return b, true
}

// ComprehensivePage handles GET /reviews/new
func (h *HTTPHandler) ComprehensivePage(w http.ResponseWriter, r *http.Request) {
	h.renderComprehensive(w, r, http.StatusOK, nil)
}

// Comprehensive handles POST /reviews/new
func (h *HTTPHandler) Comprehensive(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	in, fields := parseComprehensive(r)
	if len(fields) > 0 {
		// Report the remaining field errors in the same round trip.
		var verr *ValidationError
		if errors.As(in.validate(), &verr) {
			fields = append(fields, verr.Fields...)
		}
		h.renderComprehensive(w, r, http.StatusUnprocessableEntity, (&ValidationError{Fields: fields}).Messages())
		return
	}

	_, err := h.service.Comprehensive(r.Context(), in)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderComprehensive(w, r, http.StatusUnprocessableEntity, verr.Messages())
		return
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", in.UserID).Msg("comprehensive review failed")
		h.renderComprehensive(w, r, http.StatusInternalServerError, []string{persistenceFailure})
		return
	}

	httpx.SeeOther(w, r, "/profile")
}

func (h *HTTPHandler) renderComprehensive(w http.ResponseWriter, r *http.Request, status int, messages []string) {
	opts, err := h.service.FormOptions(r.Context())
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}
	h.render.Render(w, r, status, "add_comprehensive_review", web.Page{
		Title:    "Write a review",
		Data:     opts,
		Form:     r.Form,
		Messages: messages,
	})
}

// parseComprehensive converts the submitted form. It only reports values
// that cannot be converted; the service validates the rest.
func parseComprehensive(r *http.Request) (ComprehensiveInput, []httpx.FieldError) {
	var fields []httpx.FieldError
	value := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	date := func(name string) *time.Time {
		raw := value(name)
		if raw == "" {
			return nil
		}
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			fields = append(fields, httpx.FieldError{Field: name, Message: "Enter a valid date."})
			return nil
		}
		return &t
	}

	rating, _ := strconv.Atoi(value("rating"))
	in := ComprehensiveInput{
		UserID:        httpx.UserIDFrom(r),
		AuthorID:      value("author"),
		NewAuthorName: value("new_author_name"),
		Nationality:   value("nationality"),
		BirthDate:     date("birth_date"),
		BookID:        value("book"),
		NewBookTitle:  value("new_book_title"),
		Genre:         value("genre"),
		ReleaseDate:   date("release_date"),
		Rating:        rating,
		Content:       value("content"),
	}

	file, _, err := r.FormFile("cover_image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		fields = append(fields, httpx.FieldError{Field: "cover_image", Message: "Upload a valid image."})
	default:
		defer file.Close()
		img, err := objectstore.ReadImage(file, objectstore.MaxImageBytes)
		switch {
		case errors.Is(err, objectstore.ErrTooLarge):
			fields = append(fields, httpx.FieldError{Field: "cover_image", Message: "The image must not exceed 5 MB."})
		case err != nil:
			fields = append(fields, httpx.FieldError{Field: "cover_image", Message: "Upload a valid image. The file you uploaded was either not an image or a corrupted image."})
		default:
			in.Cover = img
		}
	}
	return in, fields
}
