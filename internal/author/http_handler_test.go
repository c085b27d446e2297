package author

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"
	"bookreview/internal/web"
)

func TestHTTPHandler_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	books := NewMockBookLister(ctrl)
	handler := NewHTTPHandler(NewService(repo, books), web.MustNewRenderer())

	t.Run("success", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), testutil.TestAuthor.ID).Return(testutil.TestAuthor, nil)
		books.EXPECT().ListByAuthor(gomock.Any(), testutil.TestAuthor.ID).Return([]entity.Book{testutil.TestBook}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/authors/"+testutil.TestAuthor.ID, nil)
		r.SetPathValue("id", testutil.TestAuthor.ID)

		handler.Detail(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ursula K. Le Guin")
		assert.Contains(t, w.Body.String(), "The Dispossessed")
		assert.Contains(t, w.Body.String(), "No ratings yet")
	})

	t.Run("not found", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "nope").Return(entity.Author{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/authors/nope", nil)
		r.SetPathValue("id", "nope")

		handler.Detail(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
