// ABOUTME: Discussion board HTTP handlers for topics and messages
// ABOUTME: All board pages sit behind the session gate except login and logout

package board

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/2389/coven-board/internal/auth"
	"github.com/2389/coven-board/internal/store"
)

// pageSize is the number of messages shown per topic page
const pageSize = 10

// Board handles the discussion board routes
type Board struct {
	store  store.Store
	gate   *auth.Gate
	logger *slog.Logger
}

// New creates a new Board handler
func New(s store.Store, gate *auth.Gate) *Board {
	return &Board{
		store:  s,
		gate:   gate,
		logger: slog.Default().With("component", "board"),
	}
}

// RegisterRoutes registers all board routes on the given mux
func (b *Board) RegisterRoutes(mux *http.ServeMux) {
	// Public routes (no session required)
	mux.HandleFunc("GET /login", b.handleLoginPage)
	mux.HandleFunc("POST /login", b.handleLogin)
	mux.HandleFunc("GET /logout", b.handleLogout)

	// Protected routes (session required)
	mux.HandleFunc("GET /{$}", b.gate.RequireSession(b.handleTopics))
	mux.HandleFunc("GET /topic/new", b.gate.RequireSession(b.handleNewTopicPage))
	mux.HandleFunc("POST /topic/new", b.gate.RequireSession(b.handleCreateTopic))
	mux.HandleFunc("GET /topic/{id}", b.gate.RequireSession(b.handleTopic))
	mux.HandleFunc("POST /topic/{id}/message", b.gate.RequireSession(b.handleAddMessage))

	b.logger.Info("board routes registered")
}

// handleLoginPage renders the login page
func (b *Board) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")

	// If already logged in, skip the form
	if b.gate.LoggedIn(r) {
		http.Redirect(w, r, auth.SafeNext(next, "/"), http.StatusSeeOther)
		return
	}

	b.renderLoginPage(w, "", next)
}

// handleLogin processes the login form submission
func (b *Board) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		b.renderLoginPage(w, "Invalid form data", "")
		return
	}

	next := r.FormValue("next")

	if err := b.gate.Authenticate(w, r, r.FormValue("password")); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			b.renderLoginPage(w, "Invalid password", next)
			return
		}
		b.logger.Error("failed to authenticate", "error", err)
		b.renderLoginPage(w, "An error occurred", next)
		return
	}

	http.Redirect(w, r, auth.SafeNext(next, "/"), http.StatusSeeOther)
}

// handleLogout ends the session and returns to the login page
func (b *Board) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.gate.Logout(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleTopics renders the front page listing all topics, newest first
func (b *Board) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := b.store.ListTopics(r.Context())
	if err != nil {
		b.logger.Error("failed to list topics", "error", err)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}

	b.renderTopicsPage(w, topics, popFlash(w, r))
}

// handleNewTopicPage renders the topic creation form
func (b *Board) handleNewTopicPage(w http.ResponseWriter, r *http.Request) {
	b.renderNewTopicPage(w, "", "")
}

// handleCreateTopic processes the topic creation form
func (b *Board) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		b.renderNewTopicPage(w, "Invalid form data", "")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		b.renderNewTopicPage(w, "Topic title cannot be empty", "")
		return
	}

	topic := &store.Topic{Title: title}
	if err := b.store.CreateTopic(r.Context(), topic); err != nil {
		b.logger.Error("failed to create topic", "error", err)
		b.renderNewTopicPage(w, "An error occurred", title)
		return
	}

	b.logger.Info("topic created", "topic_id", topic.ID)
	http.Redirect(w, r, "/topic/"+strconv.FormatInt(topic.ID, 10), http.StatusSeeOther)
}

// handleTopic renders a single topic with one page of its messages
func (b *Board) handleTopic(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	topic, err := b.store.GetTopic(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		b.logger.Error("failed to get topic", "error", err, "topic_id", id)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}

	page := parsePage(r.URL.Query().Get("page"))

	total, err := b.store.CountTopicMessages(r.Context(), id)
	if err != nil {
		b.logger.Error("failed to count messages", "error", err, "topic_id", id)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}

	messages, err := b.store.ListTopicMessages(r.Context(), id, pageSize, (page-1)*pageSize)
	if err != nil {
		b.logger.Error("failed to list messages", "error", err, "topic_id", id)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView{
			ID:        m.ID,
			Username:  m.Username,
			Content:   b.renderMarkdown(m.Content),
			CreatedAt: m.CreatedAt,
		})
	}

	totalPages := (total + pageSize - 1) / pageSize

	b.renderTopicPage(w, topicPageData{
		Title:      topic.Title,
		Topic:      topic,
		Messages:   views,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Username:   rememberedUsername(r),
		Flash:      popFlash(w, r),
	})
}

// handleAddMessage processes the message form under a topic. The topic's
// existence is not checked up front; a missing topic surfaces as a foreign
// key failure from the store.
func (b *Board) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	topicURL := "/topic/" + strconv.FormatInt(id, 10)

	if err := r.ParseForm(); err != nil {
		setFlash(w, "Invalid form data")
		http.Redirect(w, r, topicURL, http.StatusSeeOther)
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	username := strings.TrimSpace(r.FormValue("username"))

	if content == "" {
		setFlash(w, "Message cannot be empty")
		http.Redirect(w, r, topicURL, http.StatusSeeOther)
		return
	}

	msg := &store.Message{
		TopicID:  id,
		Content:  content,
		Username: username,
	}
	if err := b.store.CreateMessage(r.Context(), msg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		b.logger.Error("failed to create message", "error", err, "topic_id", id)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}

	if username != "" {
		rememberUsername(w, r, username)
	}

	b.logger.Info("message posted", "topic_id", id, "message_id", msg.ID)
	http.Redirect(w, r, topicURL, http.StatusSeeOther)
}

// parsePage interprets the page query parameter. Anything that is not a
// positive integer means page one.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
