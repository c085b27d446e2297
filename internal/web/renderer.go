// Package web renders the HTML pages of the application from embedded
// templates. Every page is executed inside base.html.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title     string
	Principal *httpx.Principal
	Data      any
	Form      url.Values
	Errors    map[string]string
	Messages  []string
}

// Value returns the submitted value of a form field for re-rendering.
func (p Page) Value(field string) string {
	if p.Form == nil {
		return ""
	}
	return p.Form.Get(field)
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"rating": func(v *float64) string {
		if v == nil {
			return "No ratings yet"
		}
		return fmt.Sprintf("%.1f", *v)
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"stars": func(n int) string {
		n = max(0, min(n, entity.MaxRating))
		return strings.Repeat("★", n) + strings.Repeat("☆", entity.MaxRating-n)
	},
	"ratingOptions": func() []int {
		opts := make([]int, 0, entity.MaxRating-entity.MinRating+1)
		for r := entity.MinRating; r <= entity.MaxRating; r++ {
			opts = append(opts, r)
		}
		return opts
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// NewRenderer parses base.html once per page template.
func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	rn := &Renderer{pages: make(map[string]*template.Template)}
	for _, path := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "base" {
			continue
		}
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", path)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rn.pages[name] = t
	}
	return rn, nil
}

func MustNewRenderer() *Renderer {
	rn, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return rn
}

// Render executes the named page with status. The principal of the request
// is filled in when the page does not set one.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	t, ok := rn.pages[name]
	if !ok {
		logging.Ctx(r.Context()).Error().Str("template", name).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if page.Principal == nil {
		page.Principal = httpx.PrincipalFrom(r)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("could not write template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorData struct {
	Status  int
	Message string
}

func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, r, http.StatusNotFound, "error", Page{
		Title: "Not found",
		Data:  errorData{Status: http.StatusNotFound, Message: "The page you requested does not exist."},
	})
}

// ServerError logs err and renders a generic error page.
func (rn *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	rn.InternalError(w, r)
}

// InternalError renders the generic error page without logging; callers
// that already logged the cause use it directly.
func (rn *Renderer) InternalError(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, r, http.StatusInternalServerError, "error", Page{
		Title: "Server error",
		Data:  errorData{Status: http.StatusInternalServerError, Message: "Something went wrong. Please try again later."},
	})
}
