// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides topic/message persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys so a message can never reference a missing topic
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
// AUTOINCREMENT keeps topic and message IDs strictly monotonic:
// SQLite never hands out an ID below the high-water mark, even after
// rows are deleted.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			username TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (topic_id) REFERENCES topics(id)
		);

		CREATE INDEX IF NOT EXISTS idx_messages_topic_id
			ON messages(topic_id);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// CreateTopic inserts a new topic and fills in the assigned ID.
// Titles longer than MaxTitleLen are truncated before storage.
func (s *SQLiteStore) CreateTopic(ctx context.Context, topic *Topic) error {
	topic.Title = truncate(topic.Title, MaxTitleLen)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (title) VALUES (?)`,
		topic.Title,
	)
	if err != nil {
		return fmt.Errorf("inserting topic: %w", err)
	}

	topic.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting topic id: %w", err)
	}

	s.logger.Debug("created topic", "id", topic.ID, "title", topic.Title)
	return nil
}

// GetTopic retrieves a topic by ID.
// Returns ErrNotFound if the topic doesn't exist.
func (s *SQLiteStore) GetTopic(ctx context.Context, id int64) (*Topic, error) {
	var topic Topic

	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM topics WHERE id = ?`, id,
	).Scan(&topic.ID, &topic.Title)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying topic: %w", err)
	}

	return &topic, nil
}

// ListTopics retrieves all topics, newest first.
// The board is expected to stay small; there is no pagination here.
func (s *SQLiteStore) ListTopics(ctx context.Context) ([]*Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title FROM topics ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var topics []*Topic
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.ID, &topic.Title); err != nil {
			return nil, fmt.Errorf("scanning topic row: %w", err)
		}
		topics = append(topics, &topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topic rows: %w", err)
	}

	return topics, nil
}

// DeleteTopic removes a topic and all of its messages in a single
// transaction, so no orphaned messages can survive a partial failure.
// Returns ErrNotFound if the topic doesn't exist.
func (s *SQLiteStore) DeleteTopic(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE topic_id = ?`, id); err != nil {
		return fmt.Errorf("deleting topic messages: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting topic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing topic delete: %w", err)
	}

	s.logger.Info("deleted topic", "id", id)
	return nil
}

// CreateMessage inserts a message under a topic and fills in the assigned ID.
// Content and username are truncated to their column limits; an empty
// username is stored as NULL. CreatedAt defaults to now when unset.
// Returns ErrNotFound if the topic doesn't exist (foreign key rejection).
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *Message) error {
	msg.Content = truncate(msg.Content, MaxContentLen)
	msg.Username = truncate(msg.Username, MaxUsernameLen)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (topic_id, content, username, created_at) VALUES (?, ?, ?, ?)`,
		msg.TopicID,
		msg.Content,
		nullString(msg.Username),
		msg.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting message: %w", err)
	}

	msg.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting message id: %w", err)
	}

	s.logger.Debug("created message", "id", msg.ID, "topic_id", msg.TopicID)
	return nil
}

// ListTopicMessages retrieves a window of messages for a topic, newest first.
// If limit is 0 or negative, a default limit of 100 is used. A window that
// starts past the last message yields an empty result, not an error.
func (s *SQLiteStore) ListTopicMessages(ctx context.Context, topicID int64, limit, offset int) ([]*Message, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic_id, content, username, created_at
		FROM messages
		WHERE topic_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, topicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		var username sql.NullString
		var createdAtStr string

		if err := rows.Scan(&msg.ID, &msg.TopicID, &msg.Content, &username, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}

		msg.Username = username.String
		msg.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing message created_at: %w", err)
		}

		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	return messages, nil
}

// CountTopicMessages returns the number of messages under a topic.
func (s *SQLiteStore) CountTopicMessages(ctx context.Context, topicID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE topic_id = ?`, topicID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// truncate cuts s to at most max runes. The limits are defined in
// characters, not bytes, so multibyte content survives the cut intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// nullString returns nil for empty strings, otherwise the string itself
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isForeignKeyViolation checks if the error is a SQLite FOREIGN KEY constraint violation
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
