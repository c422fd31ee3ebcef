// Package gate implements the single pre-request authorization hook.
//
// Every request — including ones that match no route — passes through the
// gate before its handler runs. Handlers never re-check authorization
// themselves; whatever the gate lets through, they serve.
//
// The gate's logic carries two deliberate gaps that the training scenario
// is built around:
//
//  1. The anonymous-user redirect is *noted* but not returned before the
//     admin branch runs, and the admin branch reads the username without a
//     presence check. An unauthenticated request to /admin therefore dies
//     with a missing-session-key error (a 500), not a clean redirect.
//  2. Identity is a string compare against the session cookie. Anyone who
//     can mint a cookie saying username=Paul is Paul.
package gate

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vulncamp/vulnworld/internal/session"
)

// adminUser is the only identity the admin endpoint accepts.
const adminUser = "Paul"

// staticPrefix marks requests exempt from the login requirement.
const staticPrefix = "/static"

// allowed endpoints reachable without a session.
var allowed = map[string]bool{
	"login":    true,
	"register": true,
}

// endpoints resolves a request path to its endpoint name, the same mapping
// the router uses. Unknown paths resolve to "" ("no endpoint"), and those
// still go through the anonymous-user redirect — a 404 for a logged-out
// client becomes a redirect to /register.
var endpoints = map[string]string{
	"/":         "index",
	"/register": "register",
	"/login":    "login",
	"/logout":   "logout",
	"/admin":    "admin",
}

// ErrorHandler renders an unrecovered gate error as a server failure.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Gate is the pre-request hook, applied as router-wide middleware.
type Gate struct {
	sessions session.Store
	logger   *slog.Logger
	fail     ErrorHandler
}

// New creates a Gate. fail may be nil, in which case errors surface as a
// bare 500.
func New(sessions session.Store, logger *slog.Logger, fail ErrorHandler) *Gate {
	if fail == nil {
		fail = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	return &Gate{sessions: sessions, logger: logger, fail: fail}
}

// Middleware wires the gate into the router chain.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := g.sessions.Get(r)
		endpoint := endpoints[r.URL.Path]

		// Step 1: anonymous clients get pointed at /register, except for
		// static assets and the two auth endpoints. The decision is only
		// recorded here; it is emitted after the admin branch below.
		var redirectTo string
		if !sess.Has(session.UsernameKey) {
			if !strings.HasPrefix(r.URL.Path, staticPrefix) && !allowed[endpoint] {
				redirectTo = "/register"
			}
		}

		// Step 2: the admin branch. Runs unconditionally — even when step 1
		// already chose a redirect — and indexes the session without
		// checking presence first. No session at all means this read fails
		// and the request crashes with a 500 instead of being denied.
		if endpoint == "admin" {
			name, err := sess.Username()
			if err != nil {
				g.logger.Error("gate: admin check failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				g.fail(w, r, err)
				return
			}
			if name != adminUser {
				redirectTo = "/"
			}
		}

		if redirectTo != "" {
			http.Redirect(w, r, redirectTo, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
