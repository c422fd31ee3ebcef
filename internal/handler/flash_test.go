package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carryCookies copies a response's cookies onto a fresh request, the way a
// browser would across a redirect.
func carryCookies(rr *httptest.ResponseRecorder, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestFlashes_SurviveOneRedirect(t *testing.T) {
	first := httptest.NewRecorder()
	setFlashes(first, []Flash{{Category: "info", Message: "Logged in"}})

	second := httptest.NewRecorder()
	got := popFlashes(second, carryCookies(first, "/"))

	require.Len(t, got, 1)
	assert.Equal(t, "info", got[0].Category)
	assert.Equal(t, "Logged in", got[0].Message)

	// popFlashes must have expired the cookie so a third request is clean.
	third := popFlashes(httptest.NewRecorder(), carryCookies(second, "/"))
	assert.Empty(t, third)
}

func TestFlashes_NoCookieMeansNoMessages(t *testing.T) {
	rr := httptest.NewRecorder()
	assert.Empty(t, popFlashes(rr, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Empty(t, rr.Result().Cookies(), "nothing to clear, nothing to set")
}

func TestFlashes_GarbageCookieIgnored(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "not-base64!!"})

	assert.Empty(t, popFlashes(httptest.NewRecorder(), req))
}
