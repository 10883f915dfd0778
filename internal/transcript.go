package internal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// TranscriptStore records chat turns typed in this terminal into a local
// SQLite file. It is a record of the user's own session, not a replica of
// server state; the server keeps the authoritative conversation history.
type TranscriptStore struct {
	db *sql.DB
}

// TranscriptEntry is one recorded chat turn
type TranscriptEntry struct {
	ID             int64
	ConversationID string
	Role           string // "user" or "assistant"
	Content        string
	CreatedAt      string
}

// OpenTranscript opens (and if needed creates) the transcript database
func OpenTranscript(path string) (*TranscriptStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS transcript (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create transcript table: %w", err)
	}

	return &TranscriptStore{db: db}, nil
}

// Close closes the database
func (s *TranscriptStore) Close() error {
	return s.db.Close()
}

// Append records one chat turn
func (s *TranscriptStore) Append(conversationID, role, content string) error {
	_, err := s.db.Exec(
		"INSERT INTO transcript (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		conversationID, role, content, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append transcript entry: %w", err)
	}
	return nil
}

// Recent returns the last limit entries in chronological order
func (s *TranscriptStore) Recent(limit int) ([]TranscriptEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, COALESCE(conversation_id, ''), role, content, created_at FROM transcript ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("transcript query failed: %w", err)
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var e TranscriptEntry
		if err := rows.Scan(&e.ID, &e.ConversationID, &e.Role, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("transcript scan failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transcript rows iteration error: %w", err)
	}

	// reverse into chronological order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
