package user

import (
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/httpx"
	"bookreview/internal/web"
)

type HTTPHandler struct {
	service *Service
	render  *web.Renderer
}

func NewHTTPHandler(service *Service, render *web.Renderer) *HTTPHandler {
	return &HTTPHandler{service: service, render: render}
}

type registerForm struct {
	Username  string `form:"username" validate:"required,min=3,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required,password_length,password_strength"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// RegisterPage handles GET /register
func (h *HTTPHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "register", web.Page{Title: "Register"})
}

// Register handles POST /register
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := registerForm{
		Username:  strings.TrimSpace(r.PostForm.Get("username")),
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		Password1: r.PostForm.Get("password1"),
		Password2: r.PostForm.Get("password2"),
	}

	if fieldErrors := httpx.ValidateStruct(form); len(fieldErrors) > 0 {
		h.renderInvalid(w, r, httpx.ErrorMap(fieldErrors))
		return
	}

	_, err := h.service.Register(r.Context(), RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password1,
	})
	switch {
	case errors.Is(err, ErrUsernameTaken):
		h.renderInvalid(w, r, map[string]string{"username": "A user with that username already exists."})
		return
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrAlreadyExists):
		h.renderInvalid(w, r, map[string]string{"email": "A user with that email already exists."})
		return
	case err != nil:
		h.render.ServerError(w, r, err)
		return
	}

	httpx.SeeOther(w, r, "/login")
}

func (h *HTTPHandler) renderInvalid(w http.ResponseWriter, r *http.Request, errs map[string]string) {
	h.render.Render(w, r, http.StatusUnprocessableEntity, "register", web.Page{
		Title:  "Register",
		Form:   r.PostForm,
		Errors: errs,
	})
}
