package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// GetRecord returns the row for key including its last write time.
func (s *Store) GetRecord(key string) (*Record, error) {
	r := &Record{Key: key}
	var updatedAt string
	err := s.db.QueryRow(`SELECT value, updated_at FROM kv WHERE key = ?`, key).Scan(&r.Value, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", key, err)
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return r, nil
}
