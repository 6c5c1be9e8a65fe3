// ABOUTME: Store interface and data types for coven-board persistence
// ABOUTME: Defines Topic, Message, Session structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrSessionNotFound is returned when a session doesn't exist or is expired.
var ErrSessionNotFound = errors.New("session not found")

// Column width limits. Longer values are cut to these lengths (counted in
// runes) before they are written.
const (
	MaxTitleLen    = 100
	MaxContentLen  = 300
	MaxUsernameLen = 50
)

// Topic represents a discussion topic. The ID is assigned by the database
// and only ever grows; deleted IDs are never reused.
type Topic struct {
	ID    int64
	Title string
}

// Message represents a single message posted under a topic.
// Username is empty when the poster chose not to identify themselves.
type Message struct {
	ID        int64
	TopicID   int64
	Content   string
	Username  string
	CreatedAt time.Time
}

// Session represents an authenticated board session.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store defines the interface for topic and message persistence
type Store interface {
	// Topics
	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopic(ctx context.Context, id int64) (*Topic, error)
	ListTopics(ctx context.Context) ([]*Topic, error)
	DeleteTopic(ctx context.Context, id int64) error

	// Messages
	CreateMessage(ctx context.Context, msg *Message) error
	ListTopicMessages(ctx context.Context, topicID int64, limit, offset int) ([]*Message, error)
	CountTopicMessages(ctx context.Context, topicID int64) (int, error)

	// Close releases any resources held by the store
	Close() error
}

// SessionStore defines the interface for session persistence
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) error
}
