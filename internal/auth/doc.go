// Package auth provides session-based authentication for coven-board.
//
// # Session Gate
//
// The board is protected by a single shared password. There are no user
// accounts: anyone who knows the password gets a session, and every
// session is equivalent.
//
//	gate := auth.NewGate(sessionStore, signer, password, 24*time.Hour)
//
// Authenticate checks a submitted password against the configured one in
// constant time. On success it creates a session row in the store and
// sets a cookie holding a signed token that names the row.
//
// # Session Tokens
//
// Session cookies carry an HS256 JWT signed with the configured
// secret_key. The token's "sub" claim is the session ID. A request is
// authenticated only when both layers agree:
//
//   - the token verifies and is unexpired
//   - the session row it names still exists and is unexpired
//
// Deleting the row (logout, or the hourly expiry sweep) invalidates the
// cookie immediately, regardless of how long the token itself has left.
//
// # Route Protection
//
// RequireSession wraps handlers that need a session:
//
//	mux.HandleFunc("GET /{$}", gate.RequireSession(handleTopics))
//
// Unauthenticated requests are redirected to /login with the original
// URL preserved in the next query parameter. SafeNext validates that
// parameter before the post-login redirect, so only local paths are
// followed.
package auth
