package history

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore keeps history in the search_history table created by infra.OpenSQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Record(ctx context.Context, q SearchQuery) (SearchQuery, error) {
	q, err := prepare(q)
	if err != nil {
		return SearchQuery{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history (id, origin, destination, date, adults, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.Origin, q.Destination, q.Date, q.Adults, q.RecordedAt,
	)
	if err != nil {
		return SearchQuery{}, fmt.Errorf("insert search_history: %w", err)
	}
	return q, nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]SearchQuery, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, origin, destination, date, adults, recorded_at
		 FROM search_history
		 ORDER BY recorded_at DESC, rowid DESC
		 LIMIT ?`,
		ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("select search_history: %w", err)
	}
	defer rows.Close()

	out := []SearchQuery{}
	for rows.Next() {
		var q SearchQuery
		if err := rows.Scan(&q.ID, &q.Origin, &q.Destination, &q.Date, &q.Adults, &q.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan search_history: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
