package session

import (
	"net/http"
	"time"
)

const DefaultCookieName = "session_token"

// Cookies writes and reads the session cookie. The cookie is never readable
// by page scripts and is only sent on same-site navigations.
type Cookies struct {
	Name   string
	Secure bool
	Now    Clock
}

func (c Cookies) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

func (c Cookies) Set(w http.ResponseWriter, tok Token) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	maxAge := int(tok.ExpiresAt.Sub(now()).Seconds())
	if maxAge <= 0 {
		c.Clear(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    tok.Value,
		Path:     "/",
		Expires:  tok.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the raw token from r, or false when no cookie is present.
func (c Cookies) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name())
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
