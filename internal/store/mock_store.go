// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store and SessionStore implementation for
// testing. IDs grow the way the SQLite AUTOINCREMENT columns do: deleting
// a topic never frees its ID for reuse.
type MockStore struct {
	mu            sync.RWMutex
	topics        map[int64]*Topic
	messages      map[int64][]*Message // keyed by topic ID
	sessions      map[string]*Session  // keyed by session ID
	nextTopicID   int64
	nextMessageID int64

	// ForcedErr, when set, is returned from every store method. Handler
	// tests use it to reach failure paths SQLite will not produce on demand.
	ForcedErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		topics:   make(map[int64]*Topic),
		messages: make(map[int64][]*Message),
		sessions: make(map[string]*Session),
	}
}

// CreateTopic stores a new topic and assigns the next ID.
func (m *MockStore) CreateTopic(ctx context.Context, topic *Topic) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTopicID++
	topic.ID = m.nextTopicID
	topic.Title = truncate(topic.Title, MaxTitleLen)

	// Make a copy to avoid external modification
	t := *topic
	m.topics[t.ID] = &t
	return nil
}

// GetTopic retrieves a topic by ID.
func (m *MockStore) GetTopic(ctx context.Context, id int64) (*Topic, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	topic, ok := m.topics[id]
	if !ok {
		return nil, ErrNotFound
	}

	t := *topic
	return &t, nil
}

// ListTopics returns all topics, newest first.
func (m *MockStore) ListTopics(ctx context.Context) ([]*Topic, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var topics []*Topic
	for _, topic := range m.topics {
		t := *topic
		topics = append(topics, &t)
	}

	sort.Slice(topics, func(i, j int) bool {
		return topics[i].ID > topics[j].ID
	})

	return topics, nil
}

// DeleteTopic removes a topic and its messages together, matching the
// transactional delete in SQLiteStore.
func (m *MockStore) DeleteTopic(ctx context.Context, id int64) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[id]; !ok {
		return ErrNotFound
	}

	delete(m.topics, id)
	delete(m.messages, id)
	return nil
}

// CreateMessage stores a message under an existing topic. A missing topic
// returns ErrNotFound, matching the foreign key rejection in SQLiteStore.
func (m *MockStore) CreateMessage(ctx context.Context, msg *Message) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[msg.TopicID]; !ok {
		return ErrNotFound
	}

	m.nextMessageID++
	msg.ID = m.nextMessageID
	msg.Content = truncate(msg.Content, MaxContentLen)
	msg.Username = truncate(msg.Username, MaxUsernameLen)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	mc := *msg
	m.messages[msg.TopicID] = append(m.messages[msg.TopicID], &mc)
	return nil
}

// ListTopicMessages returns a window of a topic's messages, newest first.
func (m *MockStore) ListTopicMessages(ctx context.Context, topicID int64, limit, offset int) ([]*Message, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.messages[topicID]
	ordered := make([]*Message, len(all))
	copy(ordered, all)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ID > ordered[j].ID
	})

	if offset >= len(ordered) {
		return nil, nil
	}

	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}

	var window []*Message
	for _, msg := range ordered[offset:end] {
		mc := *msg
		window = append(window, &mc)
	}
	return window, nil
}

// CountTopicMessages returns the number of messages under a topic.
func (m *MockStore) CountTopicMessages(ctx context.Context, topicID int64) (int, error) {
	if m.ForcedErr != nil {
		return 0, m.ForcedErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.messages[topicID]), nil
}

// CreateSession stores a new session.
func (m *MockStore) CreateSession(ctx context.Context, session *Session) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := *session
	m.sessions[s.ID] = &s
	return nil
}

// GetSession retrieves a valid session. Expired sessions return
// ErrSessionNotFound, matching SQLiteStore's lookup query.
func (m *MockStore) GetSession(ctx context.Context, id string) (*Session, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, ErrSessionNotFound
	}

	s := *session
	return &s, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (m *MockStore) DeleteExpiredSessions(ctx context.Context) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, session := range m.sessions {
		if !session.ExpiresAt.After(now) {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements both interfaces.
var (
	_ Store        = (*MockStore)(nil)
	_ SessionStore = (*MockStore)(nil)
)
