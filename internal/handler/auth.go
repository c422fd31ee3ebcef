package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/service"
	"github.com/vulncamp/vulnworld/internal/session"
)

// AuthHandler serves the register, login, and logout flows.
//
// NO CSRF TOKENS:
// Neither form carries a CSRF token and nothing verifies Origin/Referer.
// CSRF protection is disabled application-wide; one of the seeded posts
// even explains the attack this enables. Keep it that way.
type AuthHandler struct {
	auth     *service.AuthService
	sessions session.Store
	render   *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions session.Store, render *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		render:   render,
		logger:   logger,
	}
}

// authPage is the template data for the register and login forms.
type authPage struct {
	Title   string
	Flashes []Flash
}

// HandleRegister serves GET|POST /register.
//
// A taken username flashes an error and re-renders the form with the
// session untouched — the only error in the app that is handled as an
// expected, user-facing condition. Success stores the user (plaintext
// password), logs the new user in by writing their name into the session
// cookie, and redirects home.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	flashes := popFlashes(w, r)

	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		password := r.FormValue("password")

		user, err := h.auth.Register(r.Context(), username, password)
		switch {
		case errors.Is(err, apperror.ErrDuplicate):
			flashes = append(flashes, Flash{Category: "error", Message: "That username already exists"})
		case err != nil:
			h.render.ServerError(w, r, err)
			return
		default:
			if err := h.sessions.Set(w, r, session.UsernameKey, user.Name); err != nil {
				h.render.ServerError(w, r, err)
				return
			}
			setFlashes(w, []Flash{{Category: "info", Message: "Logged in"}})
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}

	h.render.HTML(w, "register.html", authPage{
		Title:   "Register",
		Flashes: flashes,
	})
}

// HandleLogin serves GET|POST /login.
//
// The password check is plain string equality against the stored
// plaintext. An unknown username and a wrong password produce the exact
// same flash — the form does not reveal which usernames exist.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	flashes := popFlashes(w, r)

	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		password := r.FormValue("password")

		user, err := h.auth.Login(r.Context(), username, password)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			flashes = append(flashes, Flash{Category: "error", Message: "Wrong username or password"})
		case err != nil:
			h.render.ServerError(w, r, err)
			return
		default:
			if err := h.sessions.Set(w, r, session.UsernameKey, user.Name); err != nil {
				h.render.ServerError(w, r, err)
				return
			}
			setFlashes(w, []Flash{{Category: "info", Message: "Logged in"}})
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}

	h.render.HTML(w, "login.html", authPage{
		Title:   "Login",
		Flashes: flashes,
	})
}

// HandleLogout serves GET /logout.
//
// Deleting the username key fails loudly when there is no session: logging
// out while already logged out is a 500, not a no-op. The error is allowed
// to propagate on purpose — the sharp edge is part of the exercise. (GET
// for a state change is another planted flaw; pair it with the missing
// CSRF protection and draw your own conclusions.)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(w, r, session.UsernameKey); err != nil {
		h.render.ServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
