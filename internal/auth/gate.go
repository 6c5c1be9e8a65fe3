// ABOUTME: Session gate for the password-protected board
// ABOUTME: One shared password; sessions are DB rows referenced by a signed cookie

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/coven-board/internal/store"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "board_session"

	// DefaultSessionTTL is how long sessions last unless configured otherwise
	DefaultSessionTTL = 24 * time.Hour
)

// ErrInvalidPassword is returned when the supplied password doesn't match
// the board password. Callers must show the same message for every failed
// attempt, so nothing leaks about what was tried.
var ErrInvalidPassword = errors.New("invalid password")

// Gate authenticates requests against the single shared board password
// and manages the sessions that successful logins create.
//
// The session cookie holds an HS256 JWT whose "sub" claim names a session
// row in the store. Both layers must agree for a request to pass: the
// token must verify and be unexpired, and the row must still exist. Logout
// deletes the row, which invalidates the cookie immediately regardless of
// its remaining lifetime.
type Gate struct {
	sessions store.SessionStore
	signer   *JWTVerifier
	password []byte
	ttl      time.Duration
	logger   *slog.Logger
}

// NewGate creates a gate checking against the given password. A ttl of
// zero or less falls back to DefaultSessionTTL.
func NewGate(sessions store.SessionStore, signer *JWTVerifier, password string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Gate{
		sessions: sessions,
		signer:   signer,
		password: []byte(password),
		ttl:      ttl,
		logger:   slog.Default().With("component", "auth"),
	}
}

// Authenticate checks the password and, on success, opens a session and
// sets the session cookie. The check is an exact match against the
// configured password, in constant time.
func (g *Gate) Authenticate(w http.ResponseWriter, r *http.Request, password string) error {
	// An unset board password locks the gate rather than opening it.
	if len(g.password) == 0 {
		return ErrInvalidPassword
	}
	if subtle.ConstantTimeCompare([]byte(password), g.password) != 1 {
		return ErrInvalidPassword
	}

	session := &store.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(g.ttl),
	}
	if err := g.sessions.CreateSession(r.Context(), session); err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	token, err := g.signer.Generate(session.ID, g.ttl)
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	g.logger.Info("login successful", "session_id", session.ID)
	return nil
}

// RequireSession wraps a handler to require a valid session.
// Unauthenticated requests are redirected to the login page with the
// original URL preserved in the next parameter.
func (g *Gate) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.sessionFromRequest(r); err != nil {
			loginURL := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// LoggedIn reports whether the request carries a valid session.
func (g *Gate) LoggedIn(r *http.Request) bool {
	_, err := g.sessionFromRequest(r)
	return err == nil
}

// Logout invalidates the request's session immediately and clears the
// cookie. Requests without a valid session just get the cookie cleared.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if sessionID, err := g.signer.Verify(cookie.Value); err == nil {
			if err := g.sessions.DeleteSession(r.Context(), sessionID); err != nil {
				g.logger.Error("failed to delete session", "error", err, "session_id", sessionID)
			} else {
				g.logger.Info("logout", "session_id", sessionID)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// sessionFromRequest resolves the session referenced by the request cookie.
// The cookie value must verify as an unexpired token, and the session row
// it names must still exist and be unexpired.
func (g *Gate) sessionFromRequest(r *http.Request) (*store.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, err
	}

	sessionID, err := g.signer.Verify(cookie.Value)
	if err != nil {
		return nil, err
	}

	return g.sessions.GetSession(r.Context(), sessionID)
}

// SafeNext returns target when it is a local path usable for a post-login
// redirect, otherwise fallback. Absolute URLs and protocol-relative paths
// are rejected so the login page can't be used to bounce users off-site.
func SafeNext(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}
