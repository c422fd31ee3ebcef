package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/model"
	"github.com/vulncamp/vulnworld/internal/service"
	"github.com/vulncamp/vulnworld/internal/session"
)

// flagValue is the proof-of-exploitation string. The index page embeds it
// for exactly one identity; holding it proves a learner either knew Paul's
// credentials or forged his cookie.
const flagValue = "v0lN{F0rg3_7h4t_C00k13}"

// flagUser duplicates the gate's hardcoded identity on purpose: the
// original compares the session string against "Paul" in two separate
// places, and the duplication itself is representative of how such checks
// drift apart in real code.
const flagUser = "Paul"

// ContentHandler serves the index page and the admin file disclosure.
type ContentHandler struct {
	auth     *service.AuthService
	posts    *service.PostService
	sessions session.Store
	render   *Renderer
	logger   *slog.Logger

	// secretFile is the private-key-shaped file the admin page discloses.
	// It lives outside the web root; only this handler reads it.
	secretFile string
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(
	auth *service.AuthService,
	posts *service.PostService,
	sessions session.Store,
	render *Renderer,
	secretFile string,
	logger *slog.Logger,
) *ContentHandler {
	return &ContentHandler{
		auth:       auth,
		posts:      posts,
		sessions:   sessions,
		render:     render,
		secretFile: secretFile,
		logger:     logger,
	}
}

// indexPage is the template data for the post listing.
type indexPage struct {
	Title   string
	User    *model.User // nil when the session names a user that is gone
	Posts   []service.PostWithAuthor
	Flag    string // non-empty only for Paul
	Flashes []Flash
}

// HandleIndex serves GET /.
//
// The handler indexes the session directly instead of asking "is anyone
// logged in" — the gate guarantees a session by the time we get here, and
// if that guarantee is ever broken the read below fails and the request
// 500s. Second crash point, preserved.
//
// The session identity is trusted as-is: a cookie naming a user who no
// longer exists still renders the page (with no current user), and the
// flag comparison below looks only at the cookie's string, never at the
// record store. That is what makes a forged username=Paul cookie
// sufficient to collect the flag.
func (h *ContentHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(r)
	name, err := sess.Username()
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}

	user, err := h.auth.GetByName(r.Context(), name)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		h.render.ServerError(w, r, err)
		return
	}

	posts, err := h.posts.ListWithAuthors(r.Context())
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}

	var flag string
	if name == flagUser {
		flag = flagValue
	}

	h.render.HTML(w, "index.html", indexPage{
		Title:   "VulnWorld",
		User:    user,
		Posts:   posts,
		Flag:    flag,
		Flashes: popFlashes(w, r),
	})
}

// adminPage is the template data for the admin page.
type adminPage struct {
	Title string
	Key   string
}

// HandleAdmin serves GET /admin.
//
// There is no authorization check in here at all — enforcement lives
// entirely in the gate's admin branch, crash bug included. Anyone who gets
// past the gate (or around it) receives the secret file verbatim. A read
// failure propagates as a 500.
func (h *ContentHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	key, err := os.ReadFile(h.secretFile)
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}

	h.logger.Warn("admin page disclosed the secret file",
		slog.String("path", h.secretFile),
	)

	h.render.HTML(w, "admin.html", adminPage{
		Title: "Admin",
		Key:   string(key),
	})
}
