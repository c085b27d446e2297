package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/platform/crypto"
)

const TestSecret = "test-secret-test-secret-test-secret"

// TestUser is a regular user for handler tests.
var TestUser = entity.User{
	ID:        "6f1c1c1e-0000-4000-8000-000000000001",
	Username:  "testuser",
	Email:     "test@example.com",
	Password:  "hashedpassword",
	CreatedAt: time.Now(),
}

// TestSuperuser may delete books.
var TestSuperuser = entity.User{
	ID:          "6f1c1c1e-0000-4000-8000-000000000002",
	Username:    "admin",
	Email:       "admin@example.com",
	Password:    "hashedpassword",
	IsSuperuser: true,
	CreatedAt:   time.Now(),
}

var TestAuthor = entity.Author{
	ID:          "6f1c1c1e-0000-4000-8000-0000000000a1",
	Name:        "Ursula K. Le Guin",
	Nationality: "American",
	CreatedAt:   time.Now(),
}

var TestBook = entity.Book{
	ID:         "6f1c1c1e-0000-4000-8000-0000000000b1",
	Title:      "The Dispossessed",
	Genre:      "Science Fiction",
	AuthorID:   TestAuthor.ID,
	AuthorName: TestAuthor.Name,
	CreatedAt:  time.Now(),
}

// GenerateTestToken generates a session token for testing.
func GenerateTestToken(userID string) string {
	token, _, _ := crypto.GenerateToken(TestSecret, userID, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired session token for testing.
func GenerateExpiredToken(userID string) string {
	c := crypto.Claims{
		Sub: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired-jti",
			Issuer:    "bookreview",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(TestSecret))
	return token
}

// NewFormRequest builds a urlencoded form request.
func NewFormRequest(method, path string, form url.Values) *http.Request {
	if form == nil {
		return httptest.NewRequest(method, path, nil)
	}
	r := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// WithUser attaches u as the authenticated principal.
func WithUser(r *http.Request, u entity.User) *http.Request {
	p := &httpx.Principal{ID: u.ID, Username: u.Username, IsSuperuser: u.IsSuperuser}
	return r.WithContext(httpx.ContextWithPrincipal(r.Context(), p))
}
