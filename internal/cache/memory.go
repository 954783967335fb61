package cache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for development and tests.
// Contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Entry)}
}

func (c *MemoryStore) Lookup(ctx context.Context, question string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}

	c.mu.RLock()
	entry, ok := c.items[Normalize(question)]
	c.mu.RUnlock()

	return entry, ok, nil
}

// Insert overwrites any previous answer, so the latest insert wins.
func (c *MemoryStore) Insert(ctx context.Context, question, answer string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	entry := newEntry(question, answer)

	c.mu.Lock()
	c.items[entry.Question] = entry
	c.mu.Unlock()

	return entry, nil
}

func (c *MemoryStore) Stats(_ context.Context) (Stats, error) {
	return Stats{Backend: BackendMemory, Entries: int64(c.Len())}, nil
}

// Len returns the number of items currently in the cache.
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
