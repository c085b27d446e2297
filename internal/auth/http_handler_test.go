package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/testutil"
	"bookreview/internal/user"
	"bookreview/internal/web"
)

func TestHTTPHandler_Login(t *testing.T) {
	render := web.MustNewRenderer()

	t.Run("success sets cookie and redirects home", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		handler := NewHTTPHandler(svc, render, true)
		users.EXPECT().GetByUsername(gomock.Any(), "testuser").Return(hashedUser(t, "Secret123!"), nil)

		w := httptest.NewRecorder()
		handler.Login(w, testutil.NewFormRequest(http.MethodPost, "/login", url.Values{
			"identifier": {"testuser"},
			"password":   {"Secret123!"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, httpx.SessionCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("failure renders generic message", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		handler := NewHTTPHandler(svc, render, false)
		users.EXPECT().GetByUsername(gomock.Any(), "nobody").Return(entity.User{}, user.ErrNotFound)
		users.EXPECT().GetByEmail(gomock.Any(), "nobody").Return(entity.User{}, user.ErrNotFound)

		w := httptest.NewRecorder()
		handler.Login(w, testutil.NewFormRequest(http.MethodPost, "/login", url.Values{
			"identifier": {"nobody"},
			"password":   {"x"},
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid login credentials")
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		handler := NewHTTPHandler(svc, render, false)

		w := httptest.NewRecorder()
		handler.Login(w, testutil.NewFormRequest(http.MethodPost, "/login", url.Values{"identifier": {"x"}}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_Logout(t *testing.T) {
	svc, _, tokens := newTestService(t)
	handler := NewHTTPHandler(svc, web.MustNewRenderer(), false)

	tokens.EXPECT().Revoke(gomock.Any(), gomock.Any(), testutil.TestUser.ID, gomock.Any()).Return(nil)

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	r.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: testutil.GenerateTestToken(testutil.TestUser.ID)})
	w := httptest.NewRecorder()
	handler.Logout(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestHTTPHandler_Logout_Anonymous(t *testing.T) {
	svc, _, _ := newTestService(t)
	handler := NewHTTPHandler(svc, web.MustNewRenderer(), false)

	w := httptest.NewRecorder()
	handler.Logout(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
