package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulncamp/vulnworld/internal/service"
	"github.com/vulncamp/vulnworld/internal/session"
)

// newLogoutFixture builds an AuthHandler with a real renderer and cookie
// store. Logout never touches the auth service, so it stays unwired.
func newLogoutFixture(t *testing.T) (*AuthHandler, *session.CookieStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	render, err := NewRenderer("../../web/templates", false, logger)
	require.NoError(t, err)

	store := session.NewCookieStore("VulnCamp")
	return NewAuthHandler(service.NewAuthService(nil, logger), store, render, logger), store
}

func TestHandleLogout_SignedIn(t *testing.T) {
	h, store := newLogoutFixture(t)

	token, err := store.Sign(session.Session{session.UsernameKey: "John"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// The re-issued cookie must decode to a session without the username.
	var reissued *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			reissued = c
		}
	}
	require.NotNil(t, reissued, "logout must re-issue the session cookie")

	verify := httptest.NewRequest(http.MethodGet, "/", nil)
	verify.AddCookie(reissued)
	assert.False(t, store.Get(verify).Has(session.UsernameKey))
}

// Logging out without a session deletes an absent key, and that error is
// deliberately not recovered: the handler answers 500, not a redirect.
func TestHandleLogout_NoSession(t *testing.T) {
	h, _ := newLogoutFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
}
