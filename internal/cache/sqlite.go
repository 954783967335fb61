package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStore implements Store on the chat_cache table of a sqlite database
// opened by infra.OpenSQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Lookup returns the newest row for the normalized question.
func (s *SQLiteStore) Lookup(ctx context.Context, question string) (Entry, bool, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT question, answer, created_at FROM chat_cache
		 WHERE question = ? ORDER BY id DESC LIMIT 1`,
		Normalize(question),
	).Scan(&e.Question, &e.Answer, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("select chat_cache: %w", err)
	}
	return e, true, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, question, answer string) (Entry, error) {
	e := newEntry(question, answer)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_cache (question, answer, created_at) VALUES (?, ?, ?)`,
		e.Question, e.Answer, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert chat_cache: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_cache`).Scan(&n); err != nil {
		return Stats{}, fmt.Errorf("count chat_cache: %w", err)
	}
	return Stats{Backend: BackendSQLite, Entries: n}, nil
}
