// ABOUTME: Cookie helpers for flash messages and the remembered username
// ABOUTME: Values are URL-escaped so arbitrary text survives the cookie format

package board

import (
	"net/http"
	"net/url"
	"time"
)

const (
	// flashCookieName carries a one-shot notice to the next page render
	flashCookieName = "board_flash"

	// usernameCookieName remembers the last username used to post
	usernameCookieName = "board_username"

	// usernameCookieTTL is how long the remembered username lasts
	usernameCookieTTL = 30 * 24 * time.Hour
)

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// rememberUsername stores the username for prefilling future message forms.
func rememberUsername(w http.ResponseWriter, r *http.Request, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:     usernameCookieName,
		Value:    url.QueryEscape(username),
		Path:     "/",
		Expires:  time.Now().Add(usernameCookieTTL),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// rememberedUsername returns the stored username, or "" when absent.
func rememberedUsername(r *http.Request) string {
	cookie, err := r.Cookie(usernameCookieName)
	if err != nil {
		return ""
	}
	username, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return username
}
