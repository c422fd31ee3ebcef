// Package handler contains the HTTP handlers: the auth flows (register,
// login, logout) and the content flows (index, admin), plus the template
// renderer and flash-message plumbing they share.
//
// Handlers here do no authorization of their own. The gate decides who gets
// through; whoever reaches a handler is served. That trust is one of the
// planted lessons.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime/debug"
)

// Renderer holds the parsed page templates. Each page is parsed together
// with base.html so it can fill the base layout's content block; pages are
// parsed once at startup and reused per request.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger

	// debug switches the 500 page from an opaque one-liner to the error
	// text plus a stack trace, the development-server behavior. Leaving it
	// on in production leaks internals — which is, of course, the point of
	// having the toggle in a training target.
	debug bool
}

var pages = []string{"index.html", "register.html", "login.html", "admin.html"}

// NewRenderer parses all page templates under templateDir.
func NewRenderer(templateDir string, debug bool, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{
		templates: templates,
		logger:    logger,
		debug:     debug,
	}, nil
}

// HTML renders the named page into the base layout.
func (rn *Renderer) HTML(w http.ResponseWriter, page string, data any) {
	tmpl, ok := rn.templates[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ServerError is the terminal stop for every unrecovered error: missing
// session keys, broken author lookups, unreadable secret files. Nothing
// upstream catches these — they all surface as this generic failure, and
// the distinction between "denied" and "crashed" stays observable to the
// client.
func (rn *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	rn.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	if rn.debug {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Internal Server Error\n\n%v\n\n%s", err, debug.Stack())
		return
	}

	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
