package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Flash messages that must survive a redirect ride their own short-lived
// cookie, separate from the session cookie (the session mapping carries the
// username and nothing else). The cookie value is base64-wrapped JSON and
// is cleared by the first page that renders it. It is not signed — a client
// editing its own flash messages is a non-problem.
//
// Messages shown on the same response that produced them (a form
// re-rendering with an error) never touch the cookie; the handler appends
// them to the popped list directly.

const flashCookieName = "flash"

// Flash is one queued message with its display category ("info" / "error").
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// setFlashes queues messages for the next request's page render.
func setFlashes(w http.ResponseWriter, flashes []Flash) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return // a flash that can't encode is dropped, nothing more
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the queued messages and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:   flashCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
