// ABOUTME: Tests for the board HTTP handlers (login, topics, messages, pagination).
// ABOUTME: Runs handlers against a real SQLite store; route tests go through the mux.

package board

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2389/coven-board/internal/auth"
	"github.com/2389/coven-board/internal/store"
)

const testPassword = "letmein"

// newTestBoard creates a Board backed by a real store and gate.
func newTestBoard(t *testing.T) (*Board, *store.SQLiteStore) {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	gate := auth.NewGate(s, auth.NewJWTVerifier([]byte("test-secret")), testPassword, time.Hour)
	return New(s, gate), s
}

// sessionCookie logs in through the gate and returns the session cookie.
func sessionCookie(t *testing.T, b *Board) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	if err := b.gate.Authenticate(rec, req, testPassword); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// postForm builds a form POST request for direct handler invocation.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// createTopic inserts a topic directly through the store.
func createTopic(t *testing.T, s *store.SQLiteStore, title string) *store.Topic {
	t.Helper()

	topic := &store.Topic{Title: title}
	if err := s.CreateTopic(context.Background(), topic); err != nil {
		t.Fatalf("creating topic: %v", err)
	}
	return topic
}

// --- route protection tests ---

func TestRoutes_RedirectWithoutSession(t *testing.T) {
	b, _ := newTestBoard(t)
	mux := http.NewServeMux()
	b.RegisterRoutes(mux)

	protected := []string{"/", "/topic/new", "/topic/1"}
	for _, path := range protected {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s without session: expected 303, got %d", path, rec.Code)
			continue
		}
		location := rec.Header().Get("Location")
		if !strings.HasPrefix(location, "/login?next=") {
			t.Errorf("GET %s: expected redirect to login, got %q", path, location)
		}
	}
}

func TestRoutes_FrontPageWithSession(t *testing.T) {
	b, _ := newTestBoard(t)
	mux := http.NewServeMux()
	b.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, b))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Topics") {
		t.Fatalf("expected topics page, got:\n%s", rec.Body.String())
	}
}

// --- login tests ---

func TestHandleLoginPage_ShowsForm(t *testing.T) {
	b, _ := newTestBoard(t)

	req := httptest.NewRequest(http.MethodGet, "/login?next=%2Ftopic%2F3", nil)
	rec := httptest.NewRecorder()
	b.handleLoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `action="/login"`) {
		t.Fatalf("expected login form in response, got:\n%s", body)
	}
	// The next target must ride along in the form
	if !strings.Contains(body, `value="/topic/3"`) {
		t.Fatalf("expected next value preserved in form, got:\n%s", body)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	b, _ := newTestBoard(t)

	req := postForm("/login", url.Values{"password": {"wrong"}})
	rec := httptest.NewRecorder()
	b.handleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form with 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid password") {
		t.Fatalf("expected error message in response, got:\n%s", rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			t.Error("failed login must not set a session cookie")
		}
	}
}

func TestHandleLogin_RedirectsToNext(t *testing.T) {
	b, _ := newTestBoard(t)

	req := postForm("/login", url.Values{
		"password": {testPassword},
		"next":     {"/topic/3?page=2"},
	})
	rec := httptest.NewRecorder()
	b.handleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/topic/3?page=2" {
		t.Fatalf("expected redirect to next target, got %q", location)
	}
}

func TestHandleLogin_RejectsOffsiteNext(t *testing.T) {
	b, _ := newTestBoard(t)

	req := postForm("/login", url.Values{
		"password": {testPassword},
		"next":     {"https://evil.example/"},
	})
	rec := httptest.NewRecorder()
	b.handleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Fatalf("expected offsite next to fall back to /, got %q", location)
	}
}

func TestHandleLogout_RedirectsToLogin(t *testing.T) {
	b, _ := newTestBoard(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(sessionCookie(t, b))
	rec := httptest.NewRecorder()
	b.handleLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

// --- topic list tests ---

func TestHandleTopics_Empty(t *testing.T) {
	b, _ := newTestBoard(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	b.handleTopics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No topics yet") {
		t.Fatalf("expected empty state message, got:\n%s", rec.Body.String())
	}
}

func TestHandleTopics_NewestFirst(t *testing.T) {
	b, s := newTestBoard(t)
	createTopic(t, s, "older topic")
	createTopic(t, s, "newer topic")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	b.handleTopics(rec, req)

	body := rec.Body.String()
	newerIdx := strings.Index(body, "newer topic")
	olderIdx := strings.Index(body, "older topic")
	if newerIdx == -1 || olderIdx == -1 {
		t.Fatalf("expected both topics in response, got:\n%s", body)
	}
	if newerIdx >= olderIdx {
		t.Fatalf("expected newer topic listed first, newer at %d, older at %d", newerIdx, olderIdx)
	}
}

// --- topic creation tests ---

func TestHandleCreateTopic(t *testing.T) {
	b, s := newTestBoard(t)

	req := postForm("/topic/new", url.Values{"title": {"  Hello board  "}})
	rec := httptest.NewRecorder()
	b.handleCreateTopic(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}

	topics, err := s.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("listing topics: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	if topics[0].Title != "Hello board" {
		t.Errorf("expected trimmed title %q, got %q", "Hello board", topics[0].Title)
	}

	wantLocation := fmt.Sprintf("/topic/%d", topics[0].ID)
	if location := rec.Header().Get("Location"); location != wantLocation {
		t.Fatalf("expected redirect to %q, got %q", wantLocation, location)
	}
}

func TestHandleCreateTopic_EmptyTitle(t *testing.T) {
	b, s := newTestBoard(t)

	req := postForm("/topic/new", url.Values{"title": {"   "}})
	rec := httptest.NewRecorder()
	b.handleCreateTopic(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form with 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Topic title cannot be empty") {
		t.Fatalf("expected validation message, got:\n%s", rec.Body.String())
	}

	topics, err := s.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("listing topics: %v", err)
	}
	if len(topics) != 0 {
		t.Fatalf("expected no topics created, got %d", len(topics))
	}
}

// --- topic view tests ---

func TestHandleTopic_NotFound(t *testing.T) {
	b, _ := newTestBoard(t)

	req := httptest.NewRequest(http.MethodGet, "/topic/999", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	b.handleTopic(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleTopic_InvalidID(t *testing.T) {
	b, _ := newTestBoard(t)

	req := httptest.NewRequest(http.MethodGet, "/topic/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	b.handleTopic(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleTopic_ShowsMessages(t *testing.T) {
	b, s := newTestBoard(t)
	topic := createTopic(t, s, "introductions")

	msgs := []*store.Message{
		{TopicID: topic.ID, Content: "hello from alice", Username: "alice"},
		{TopicID: topic.ID, Content: "hello from nobody"},
	}
	for _, m := range msgs {
		if err := s.CreateMessage(context.Background(), m); err != nil {
			t.Fatalf("creating message: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/topic/%d", topic.ID), nil)
	req.SetPathValue("id", fmt.Sprintf("%d", topic.ID))
	rec := httptest.NewRecorder()
	b.handleTopic(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "introductions") {
		t.Fatalf("expected topic title in response, got:\n%s", body)
	}
	if !strings.Contains(body, "hello from alice") || !strings.Contains(body, "alice") {
		t.Fatalf("expected alice's message, got:\n%s", body)
	}
	if !strings.Contains(body, "hello from nobody") || !strings.Contains(body, "anonymous") {
		t.Fatalf("expected anonymous message, got:\n%s", body)
	}
}

func TestHandleTopic_RendersMarkdown(t *testing.T) {
	b, s := newTestBoard(t)
	topic := createTopic(t, s, "formatting")

	msg := &store.Message{TopicID: topic.ID, Content: "some **bold** text"}
	if err := s.CreateMessage(context.Background(), msg); err != nil {
		t.Fatalf("creating message: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/topic/%d", topic.ID), nil)
	req.SetPathValue("id", fmt.Sprintf("%d", topic.ID))
	rec := httptest.NewRecorder()
	b.handleTopic(rec, req)

	if !strings.Contains(rec.Body.String(), "<strong>bold</strong>") {
		t.Fatalf("expected markdown-rendered message, got:\n%s", rec.Body.String())
	}
}

func TestHandleTopic_Pagination(t *testing.T) {
	b, s := newTestBoard(t)
	topic := createTopic(t, s, "a long conversation")

	for i := 1; i <= 25; i++ {
		msg := &store.Message{TopicID: topic.ID, Content: fmt.Sprintf("reply number %d", i)}
		if err := s.CreateMessage(context.Background(), msg); err != nil {
			t.Fatalf("creating message %d: %v", i, err)
		}
	}

	getPage := func(page string) string {
		target := fmt.Sprintf("/topic/%d", topic.ID)
		if page != "" {
			target += "?page=" + page
		}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.SetPathValue("id", fmt.Sprintf("%d", topic.ID))
		rec := httptest.NewRecorder()
		b.handleTopic(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("page %q: expected status 200, got %d", page, rec.Code)
		}
		return rec.Body.String()
	}

	// Page 1 (default): newest ten, 25 down to 16
	body := getPage("")
	if !strings.Contains(body, "reply number 25") || !strings.Contains(body, "reply number 16") {
		t.Fatal("expected page 1 to span replies 25..16")
	}
	if strings.Contains(body, "reply number 15") {
		t.Fatal("expected reply 15 on page 2, not page 1")
	}
	if !strings.Contains(body, "Page 1 of 3") {
		t.Fatalf("expected page indicator, got:\n%s", body)
	}

	// Page 3: the oldest five
	body = getPage("3")
	if !strings.Contains(body, "reply number 5") || !strings.Contains(body, "reply number 1") {
		t.Fatal("expected page 3 to span replies 5..1")
	}
	if strings.Contains(body, "reply number 6") {
		t.Fatal("expected reply 6 on page 2, not page 3")
	}

	// Beyond the last page: empty, not an error
	body = getPage("4")
	if !strings.Contains(body, "No messages on this page") {
		t.Fatalf("expected empty state beyond last page, got:\n%s", body)
	}

	// Nonsense page values mean page 1
	body = getPage("banana")
	if !strings.Contains(body, "reply number 25") {
		t.Fatal("expected non-numeric page to show page 1")
	}
	body = getPage("-3")
	if !strings.Contains(body, "reply number 25") {
		t.Fatal("expected negative page to show page 1")
	}
}

// --- message posting tests ---

func TestHandleAddMessage(t *testing.T) {
	b, s := newTestBoard(t)
	topic := createTopic(t, s, "general")

	target := fmt.Sprintf("/topic/%d/message", topic.ID)
	req := postForm(target, url.Values{
		"content":  {"  first post  "},
		"username": {"alice"},
	})
	req.SetPathValue("id", fmt.Sprintf("%d", topic.ID))
	rec := httptest.NewRecorder()
	b.handleAddMessage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	wantLocation := fmt.Sprintf("/topic/%d", topic.ID)
	if location := rec.Header().Get("Location"); location != wantLocation {
		t.Fatalf("expected redirect to %q, got %q", wantLocation, location)
	}

	msgs, err := s.ListTopicMessages(context.Background(), topic.ID, 10, 0)
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Content != "first post" {
		t.Errorf("expected trimmed content %q, got %q", "first post", msgs[0].Content)
	}
	if msgs[0].Username != "alice" {
		t.Errorf("expected username %q, got %q", "alice", msgs[0].Username)
	}

	// The username rides along for next time
	var remembered bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == usernameCookieName && c.Value == "alice" {
			remembered = true
		}
	}
	if !remembered {
		t.Error("expected username cookie to be set")
	}
}

func TestHandleAddMessage_EmptyContent(t *testing.T) {
	b, s := newTestBoard(t)
	topic := createTopic(t, s, "general")

	target := fmt.Sprintf("/topic/%d/message", topic.ID)
	req := postForm(target, url.Values{"content": {"   "}})
	req.SetPathValue("id", fmt.Sprintf("%d", topic.ID))
	rec := httptest.NewRecorder()
	b.handleAddMessage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect back to topic, got %d", rec.Code)
	}

	var flash string
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName {
			flash, _ = url.QueryUnescape(c.Value)
		}
	}
	if flash != "Message cannot be empty" {
		t.Fatalf("expected flash message, got %q", flash)
	}

	count, err := s.CountTopicMessages(context.Background(), topic.ID)
	if err != nil {
		t.Fatalf("counting messages: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no messages stored, got %d", count)
	}
}

func TestHandleAddMessage_UnknownTopic(t *testing.T) {
	b, _ := newTestBoard(t)

	req := postForm("/topic/777/message", url.Values{"content": {"into the void"}})
	req.SetPathValue("id", "777")
	rec := httptest.NewRecorder()
	b.handleAddMessage(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown topic, got %d", rec.Code)
	}
}

func TestHandleTopic_PrefillsRememberedUsername(t *testing.T) {
	b, s := newTestBoard(t)
	topic := createTopic(t, s, "general")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/topic/%d", topic.ID), nil)
	req.SetPathValue("id", fmt.Sprintf("%d", topic.ID))
	req.AddCookie(&http.Cookie{Name: usernameCookieName, Value: "bob"})
	rec := httptest.NewRecorder()
	b.handleTopic(rec, req)

	if !strings.Contains(rec.Body.String(), `value="bob"`) {
		t.Fatalf("expected remembered username prefilled, got:\n%s", rec.Body.String())
	}
}

// --- store failure tests ---

// newMockBoard creates a Board over a MockStore so tests can force store errors.
func newMockBoard(t *testing.T) (*Board, *store.MockStore) {
	t.Helper()

	m := store.NewMockStore()
	gate := auth.NewGate(m, auth.NewJWTVerifier([]byte("test-secret")), testPassword, time.Hour)
	return New(m, gate), m
}

func TestHandleTopics_StoreError(t *testing.T) {
	b, m := newMockBoard(t)
	m.ForcedErr = errors.New("datastore unavailable")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	b.handleTopics(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "An error occurred") {
		t.Fatalf("expected generic error body, got:\n%s", rec.Body.String())
	}
}

func TestHandleCreateTopic_StoreError(t *testing.T) {
	b, m := newMockBoard(t)
	m.ForcedErr = errors.New("datastore unavailable")

	req := postForm("/topic/new", url.Values{"title": {"doomed"}})
	rec := httptest.NewRecorder()
	b.handleCreateTopic(rec, req)

	// The form re-renders with the typed title intact
	if rec.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form with 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "An error occurred") {
		t.Fatalf("expected generic error message, got:\n%s", body)
	}
	if !strings.Contains(body, `value="doomed"`) {
		t.Fatalf("expected title preserved in form, got:\n%s", body)
	}
}

func TestHandleTopic_StoreError(t *testing.T) {
	b, m := newMockBoard(t)
	m.ForcedErr = errors.New("datastore unavailable")

	req := httptest.NewRequest(http.MethodGet, "/topic/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	b.handleTopic(rec, req)

	// A store failure is not a missing topic
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

// --- helpers ---

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"7", 7},
		{"0", 1},
		{"-2", 1},
		{"banana", 1},
		{"2.5", 1},
	}

	for _, tt := range tests {
		if got := parsePage(tt.raw); got != tt.want {
			t.Errorf("parsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
