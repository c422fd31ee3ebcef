// Package session implements the client-held session store.
//
// There is no server-side session table. The whole session lives in one
// cookie whose value is an HS256-signed JWT: the client can read the
// claims, and only the signature stops them from editing the mapping.
//
// VULNERABILITY (intentional): the signing secret defaults to a short,
// guessable string. Anyone who guesses it can mint a cookie with
// username=Paul and walk through every identity check in the app. That
// forgery is the intended exploit of the training exercise, so there is no
// secret-strength validation, no expiry claim, and no rotation.
//
// A cookie that fails to parse or verify is simply treated as "no session".
// A cookie that verifies but names a user who no longer exists is trusted
// as-is — nothing here checks the record store.
package session

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/vulncamp/vulnworld/internal/apperror"
)

// CookieName is the session cookie's name.
const CookieName = "session"

// UsernameKey is the only key the app ever stores in a session.
const UsernameKey = "username"

// Session is the per-client state mapping. In practice it holds at most
// one key, "username"; its absence means "not logged in".
type Session map[string]string

// Has reports whether the session carries the given key.
func (s Session) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Username returns the logged-in username.
//
// This is the crash-as-control-flow accessor: when the key is absent it
// returns ErrMissingSessionKey, which no caller recovers from. The gate's
// admin branch and the index handler both index the session through here,
// so reaching either without a session 500s instead of redirecting.
func (s Session) Username() (string, error) {
	v, ok := s[UsernameKey]
	if !ok {
		return "", apperror.MissingSessionKey(UsernameKey)
	}
	return v, nil
}

// Store is the session collaborator injected into the gate and handlers.
type Store interface {
	// Get returns the request's session mapping; empty when the cookie is
	// absent, malformed, or fails signature verification.
	Get(r *http.Request) Session

	// Set writes key=value into the session and re-issues the cookie.
	Set(w http.ResponseWriter, r *http.Request, key, value string) error

	// Delete removes key from the session and re-issues the cookie.
	// Fails loudly with ErrMissingSessionKey when the key is absent —
	// logging out while already logged out is supposed to crash, not no-op.
	Delete(w http.ResponseWriter, r *http.Request, key string) error
}

// CookieStore signs and verifies the session cookie with a fixed
// process-wide HMAC secret.
type CookieStore struct {
	secret []byte
}

// NewCookieStore creates a CookieStore signing with the given secret.
// No minimum length is enforced; the default deployment secret is weak on
// purpose (see the package comment).
func NewCookieStore(secret string) *CookieStore {
	return &CookieStore{secret: []byte(secret)}
}

var _ Store = (*CookieStore)(nil)

// sessionClaims is the JWT payload: the session mapping plus the
// registered claims (only jti is populated — deliberately no exp).
type sessionClaims struct {
	Data map[string]string `json:"data"`
	jwt.RegisteredClaims
}

// Get decodes the session cookie. Every failure mode — no cookie, garbage
// token, wrong signature, wrong algorithm — collapses to an empty mapping.
func (cs *CookieStore) Get(r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}

	token, err := jwt.ParseWithClaims(
		cookie.Value,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("session: unexpected signing method: %v", token.Header["alg"])
			}
			return cs.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return Session{}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.Data == nil {
		return Session{}
	}

	return Session(claims.Data)
}

// Set merges key=value into the current session and re-issues the cookie.
func (cs *CookieStore) Set(w http.ResponseWriter, r *http.Request, key, value string) error {
	sess := cs.Get(r)
	sess[key] = value
	return cs.write(w, sess)
}

// Delete removes key from the current session. An absent key is an error,
// not a no-op; callers let it propagate.
func (cs *CookieStore) Delete(w http.ResponseWriter, r *http.Request, key string) error {
	sess := cs.Get(r)
	if !sess.Has(key) {
		return apperror.MissingSessionKey(key)
	}
	delete(sess, key)
	return cs.write(w, sess)
}

// Sign serializes a session mapping into a signed token string. Exposed so
// tests can mint cookies directly — including forged ones.
func (cs *CookieStore) Sign(sess Session) (string, error) {
	claims := sessionClaims{
		Data: sess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cs.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

func (cs *CookieStore) write(w http.ResponseWriter, sess Session) error {
	signed, err := cs.Sign(sess)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
