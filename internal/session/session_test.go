package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vulncamp/vulnworld/internal/apperror"
)

const testSecret = "VulnCamp"

// requestWithCookie builds a GET request carrying the given session token.
func requestWithCookie(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return r
}

// sessionCookie digs the re-issued session cookie out of a recorded
// response, or returns "" if none was set.
func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}

func TestGet_NoCookie(t *testing.T) {
	cs := NewCookieStore(testSecret)

	sess := cs.Get(requestWithCookie(""))
	if len(sess) != 0 {
		t.Errorf("Get() with no cookie = %v, want empty session", sess)
	}
	if sess.Has(UsernameKey) {
		t.Error("empty session should not have a username")
	}
}

func TestSetThenGet_Roundtrip(t *testing.T) {
	cs := NewCookieStore(testSecret)

	rr := httptest.NewRecorder()
	if err := cs.Set(rr, requestWithCookie(""), UsernameKey, "John"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	token := sessionCookie(t, rr)
	if token == "" {
		t.Fatal("Set() did not write a session cookie")
	}

	sess := cs.Get(requestWithCookie(token))
	name, err := sess.Username()
	if err != nil {
		t.Fatalf("Username() error = %v", err)
	}
	if name != "John" {
		t.Errorf("Username() = %q, want %q", name, "John")
	}
}

func TestGet_TamperedToken(t *testing.T) {
	cs := NewCookieStore(testSecret)

	token, err := cs.Sign(Session{UsernameKey: "John"})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	// Flip part of the payload; the signature no longer matches.
	tampered := strings.Replace(token, ".", ".X", 1)
	sess := cs.Get(requestWithCookie(tampered))
	if sess.Has(UsernameKey) {
		t.Error("tampered token should read as an anonymous session")
	}
}

// The intended exploit: anyone who knows (or guesses) the signing secret
// can mint a cookie claiming to be Paul, and the store accepts it.
func TestGet_ForgedWithKnownSecret(t *testing.T) {
	attacker := NewCookieStore(testSecret)
	forged, err := attacker.Sign(Session{UsernameKey: "Paul"})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	server := NewCookieStore(testSecret)
	sess := server.Get(requestWithCookie(forged))
	name, err := sess.Username()
	if err != nil {
		t.Fatalf("Username() error = %v", err)
	}
	if name != "Paul" {
		t.Errorf("forged cookie read back %q, want %q", name, "Paul")
	}
}

func TestGet_ForgedWithWrongSecret(t *testing.T) {
	attacker := NewCookieStore("not-the-real-secret")
	forged, err := attacker.Sign(Session{UsernameKey: "Paul"})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	server := NewCookieStore(testSecret)
	sess := server.Get(requestWithCookie(forged))
	if sess.Has(UsernameKey) {
		t.Error("token signed with the wrong secret should read as anonymous")
	}
}

func TestDelete_RemovesKey(t *testing.T) {
	cs := NewCookieStore(testSecret)

	token, err := cs.Sign(Session{UsernameKey: "Marie"})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	rr := httptest.NewRecorder()
	if err := cs.Delete(rr, requestWithCookie(token), UsernameKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	reissued := sessionCookie(t, rr)
	sess := cs.Get(requestWithCookie(reissued))
	if sess.Has(UsernameKey) {
		t.Error("username should be gone after Delete")
	}
}

// Deleting a key that is not there must fail loudly, not no-op — this is
// what makes logging out twice in a row crash.
func TestDelete_MissingKey(t *testing.T) {
	cs := NewCookieStore(testSecret)

	rr := httptest.NewRecorder()
	err := cs.Delete(rr, requestWithCookie(""), UsernameKey)
	if err == nil {
		t.Fatal("Delete() of an absent key should error")
	}
	if !errors.Is(err, apperror.ErrMissingSessionKey) {
		t.Errorf("error = %v, want ErrMissingSessionKey", err)
	}
}

func TestUsername_Missing(t *testing.T) {
	sess := Session{}

	_, err := sess.Username()
	if err == nil {
		t.Fatal("Username() on an empty session should error")
	}
	if !errors.Is(err, apperror.ErrMissingSessionKey) {
		t.Errorf("error = %v, want ErrMissingSessionKey", err)
	}
}
