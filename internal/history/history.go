package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// SearchQuery is one recorded flight search. Records are append-only.
type SearchQuery struct {
	ID          string    `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Date        string    `json:"date"`
	Adults      int       `json:"adults"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Store is the search history log.
type Store interface {
	// Record appends q, filling in ID, Adults and RecordedAt when unset.
	Record(ctx context.Context, q SearchQuery) (SearchQuery, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]SearchQuery, error)
}

// prepare validates q and fills in the generated fields.
func prepare(q SearchQuery) (SearchQuery, error) {
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	q.Date = strings.TrimSpace(q.Date)
	if q.Origin == "" || q.Destination == "" || q.Date == "" {
		return SearchQuery{}, errors.New("history: origin, destination and date are required")
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Adults <= 0 {
		q.Adults = 1
	}
	if q.RecordedAt.IsZero() {
		q.RecordedAt = time.Now().UTC()
	}
	return q, nil
}

// ClampLimit maps limit into [1, MaxLimit], using DefaultLimit for non-positive values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}
