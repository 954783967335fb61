package cache

import (
	"context"
	"strings"
	"time"
)

// Entry is a cached answer. Question is the normalized key.
type Entry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Store maps normalized questions to answers. Entries never expire.
// Implemented by the sqlite, Postgres, Redis and in-memory backends.
type Store interface {
	// Lookup normalizes question and returns the most recent matching entry.
	Lookup(ctx context.Context, question string) (Entry, bool, error)
	// Insert normalizes question and stores answer verbatim.
	// Concurrent inserts for the same question are tolerated.
	Insert(ctx context.Context, question, answer string) (Entry, error)
}

// Stats summarizes a backend's contents.
type Stats struct {
	Backend string `json:"backend"`
	Entries int64  `json:"entries"`
}

// StatsReporter is implemented by backends that can count their entries.
type StatsReporter interface {
	Stats(ctx context.Context) (Stats, error)
}

// Normalize trims surrounding whitespace and lower-cases the question.
func Normalize(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

func newEntry(question, answer string) Entry {
	return Entry{
		Question:  Normalize(question),
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
}
