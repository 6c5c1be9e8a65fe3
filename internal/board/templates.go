// ABOUTME: Template rendering functions for the board UI
// ABOUTME: Loads templates from embedded filesystem and renders them

package board

import (
	"html/template"
	"net/http"
	"time"

	"github.com/2389/coven-board/internal/store"
)

// Template data types
type loginData struct {
	Title string
	Error string
	Next  string
}

type topicsData struct {
	Title  string
	Topics []*store.Topic
	Flash  string
}

type newTopicData struct {
	Title      string
	Error      string
	TitleValue string
}

// messageView is a message prepared for display, with rendered content
type messageView struct {
	ID        int64
	Username  string
	Content   template.HTML
	CreatedAt time.Time
}

type topicPageData struct {
	Title      string
	Topic      *store.Topic
	Messages   []messageView
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Username   string
	Flash      string
}

// renderLoginPage renders the login page
func (b *Board) renderLoginPage(w http.ResponseWriter, errorMsg, next string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/login.html"))

	data := loginData{
		Title: "Login",
		Error: errorMsg,
		Next:  next,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		b.logger.Error("failed to render login page", "error", err)
	}
}

// renderTopicsPage renders the topic list front page
func (b *Board) renderTopicsPage(w http.ResponseWriter, topics []*store.Topic, flash string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/topics.html"))

	data := topicsData{
		Title:  "Topics",
		Topics: topics,
		Flash:  flash,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		b.logger.Error("failed to render topics page", "error", err)
	}
}

// renderNewTopicPage renders the topic creation form
func (b *Board) renderNewTopicPage(w http.ResponseWriter, errorMsg, titleValue string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/new_topic.html"))

	data := newTopicData{
		Title:      "New Topic",
		Error:      errorMsg,
		TitleValue: titleValue,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		b.logger.Error("failed to render new topic page", "error", err)
	}
}

// renderTopicPage renders a single topic with its paginated messages
func (b *Board) renderTopicPage(w http.ResponseWriter, data topicPageData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/topic.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		b.logger.Error("failed to render topic page", "error", err)
	}
}
