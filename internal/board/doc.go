// Package board provides the web interface of the discussion board.
//
// # Overview
//
// The board is a small server-rendered forum:
//
//   - Front page: All topics, newest first
//   - Topic pages: Messages under a topic, paginated ten per page
//   - Posting: Anyone with the board password can start topics and reply
//
// # Routes
//
// Public:
//
//	GET  /login    Login form
//	POST /login    Password check, session creation
//	GET  /logout   Session teardown
//
// Session required (via auth.Gate):
//
//	GET  /                     Topic list
//	GET  /topic/new            Topic creation form
//	POST /topic/new            Create a topic
//	GET  /topic/{id}?page=N    Topic with one page of messages
//	POST /topic/{id}/message   Post a message
//
// # Rendering
//
// Pages are rendered server-side from templates embedded with //go:embed.
// Each page parses base.html plus its content template. Message bodies are
// Markdown, converted with goldmark; raw HTML in messages is omitted by
// the converter, so posts cannot inject markup.
//
// # Validation
//
// Form input is trimmed before checking. An empty topic title re-renders
// the form with an error; an empty message sets a flash notice and
// redirects back to the topic. Length limits are enforced by the store,
// which silently truncates long values rather than rejecting them.
//
// # Cookies
//
// Besides the session cookie owned by the auth package, the board uses:
//
//   - board_flash: One-shot notice shown on the next page render
//   - board_username: Remembered poster name, kept for 30 days
package board
