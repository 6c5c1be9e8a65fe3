// Package store provides persistent storage for the board using SQLite.
//
// # Data Models
//
//   - Topic: a discussion topic, identified by a monotonically increasing ID
//   - Message: a post under a topic; username is optional and stored as NULL
//     when absent
//   - Session: an authenticated browser session with a server-side expiry
//
// Topic and message IDs come from SQLite AUTOINCREMENT columns, so an ID
// is never reused or reordered, even after its row is deleted.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Foreign keys are enforced, so inserting a message for a missing topic
// fails with ErrNotFound rather than creating an orphan. DeleteTopic removes
// a topic and its messages in one transaction for the same reason.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrSessionNotFound: session missing or expired
//
// All methods accept context.Context for cancellation support.
//
// Use NewSQLiteStore(":memory:") for integration tests with real SQLite.
package store
