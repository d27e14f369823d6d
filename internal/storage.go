package internal

import (
	"database/sql"
	"errors"
	"fmt"
)

// KeyValueStore is the string-valued persistence layer every store writes through
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Clear() error
}

// Persisted keys
const (
	KeyChatHistory         = "chat_history"
	KeySettings            = "app_settings"
	KeyCurrentConversation = "current_conversation"
	KeyCurrentCode         = "current_code"
)

// Storage is a KeyValueStore backed by the kv table of a SQLite database
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Get returns the value for key, or "" if the key is not present
func (s *Storage) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Key: key, Op: "get", Err: err}
	}
	return value, nil
}

// Set writes the value synchronously
func (s *Storage) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Key: key, Op: "set", Err: err}
	}
	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (s *Storage) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// Keys lists every stored key in lexical order
func (s *Storage) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, &StorageError{Op: "keys", Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return keys, nil
}

// Clear removes every key
func (s *Storage) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}
