package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server, retries int, threshold uint32) *Client {
	return NewClient(Config{
		BaseURL:          srv.URL,
		UserAgent:        "bookreview-test",
		RPS:              1000,
		MaxRetries:       retries,
		HTTPClient:       srv.Client(),
		FailureThreshold: threshold,
		OpenTimeout:      time.Minute,
	})
}

func TestGetBooksByISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "ISBN:9780441013593", r.URL.Query().Get("bibkeys"))
		assert.Equal(t, "bookreview-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"ISBN:9780441013593":{"title":"Dune","publish_date":"2005","authors":[{"url":"https://openlibrary.org/authors/OL79034A/Frank_Herbert","name":"Frank Herbert"}],"cover":{"large":"https://covers.openlibrary.org/b/id/1-L.jpg"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, 0, 5)
	res, err := c.GetBooksByISBN(context.Background(), []string{"9780441013593"})
	require.NoError(t, err)

	book, ok := res["ISBN:9780441013593"]
	require.True(t, ok)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "OL79034A", book.AuthorKey())
	assert.Equal(t, "https://covers.openlibrary.org/b/id/1-L.jpg", book.Cover.Large)
}

func TestGetAuthor_StripsPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authors/OL79034A.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"Frank Herbert","birth_date":"8 October 1920"}`))
	}))
	defer srv.Close()

	a, err := newTestClient(srv, 0, 5).GetAuthor(context.Background(), "/authors/OL79034A")
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", a.Name)
	assert.Equal(t, "8 October 1920", a.BirthDate)
}

func TestGet_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, 2, 5).GetAuthor(context.Background(), "OL1A")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Ursula K. Le Guin"}`))
	}))
	defer srv.Close()

	a, err := newTestClient(srv, 1, 5).GetAuthor(context.Background(), "OL2A")
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", a.Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv, 0, 2)
	for i := 0; i < 2; i++ {
		_, err := c.GetAuthor(context.Background(), "OL3A")
		require.Error(t, err)
	}

	_, err := c.GetAuthor(context.Background(), "OL3A")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), calls.Load())
}
