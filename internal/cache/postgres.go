package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on the chat_cache table in Postgres.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Lookup(ctx context.Context, question string) (Entry, bool, error) {
	var e Entry
	err := s.db.QueryRow(ctx, `
		SELECT question, answer, created_at FROM chat_cache
		WHERE question = $1
		ORDER BY id DESC
		LIMIT 1
	`, Normalize(question)).Scan(&e.Question, &e.Answer, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("select chat_cache: %w", err)
	}
	return e, true, nil
}

func (s *PostgresStore) Insert(ctx context.Context, question, answer string) (Entry, error) {
	e := newEntry(question, answer)
	_, err := s.db.Exec(ctx, `
		INSERT INTO chat_cache (question, answer, created_at)
		VALUES ($1, $2, $3)
	`, e.Question, e.Answer, e.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("insert chat_cache: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_cache`).Scan(&n); err != nil {
		return Stats{}, fmt.Errorf("count chat_cache: %w", err)
	}
	return Stats{Backend: BackendPostgres, Entries: n}, nil
}
