package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps history in Postgres.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, q SearchQuery) (SearchQuery, error) {
	q, err := prepare(q)
	if err != nil {
		return SearchQuery{}, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO search_history (id, origin, destination, date, adults, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, q.ID, q.Origin, q.Destination, q.Date, q.Adults, q.RecordedAt)
	if err != nil {
		return SearchQuery{}, fmt.Errorf("insert search_history: %w", err)
	}
	return q, nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]SearchQuery, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, origin, destination, date, adults, recorded_at
		FROM search_history
		ORDER BY recorded_at DESC, seq DESC
		LIMIT $1
	`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("select search_history: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SearchQuery, error) {
		var q SearchQuery
		err := row.Scan(&q.ID, &q.Origin, &q.Destination, &q.Date, &q.Adults, &q.RecordedAt)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan search_history: %w", err)
	}
	return out, nil
}
