package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. Values are JSON-encoded entries
// stored without expiration.
type RedisStore struct {
	client *redis.Client
	prefix string
}

type RedisConfig struct {
	Prefix string
}

// NewRedisStore creates a Redis-backed cache.
func NewRedisStore(client *redis.Client, config RedisConfig) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: config.Prefix,
	}
}

// key builds the final Redis key with prefix.
func (c *RedisStore) key(question string) string {
	k := AnswerKey(question)
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Lookup reads the entry for question. A missing key is a clean miss.
func (c *RedisStore) Lookup(ctx context.Context, question string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, fmt.Errorf("context error: %w", err)
	}

	raw, err := c.client.Get(ctx, c.key(question)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return entry, true, nil
}

// Insert stores the entry with no TTL. A concurrent insert for the same
// question simply overwrites it.
func (c *RedisStore) Insert(ctx context.Context, question, answer string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, fmt.Errorf("context error: %w", err)
	}

	entry := newEntry(question, answer)
	raw, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("encode entry: %w", err)
	}

	if err := c.client.Set(ctx, c.key(question), raw, 0).Err(); err != nil {
		return Entry{}, fmt.Errorf("redis set failed: %w", err)
	}
	return entry, nil
}

// Stats counts answer keys under the configured prefix with SCAN.
func (c *RedisStore) Stats(ctx context.Context) (Stats, error) {
	pattern := "answer:*"
	if c.prefix != "" {
		pattern = c.prefix + ":" + pattern
	}

	var n int64
	iter := c.client.Scan(ctx, 0, pattern, 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return Stats{}, fmt.Errorf("redis scan failed: %w", err)
	}
	return Stats{Backend: BackendRedis, Entries: n}, nil
}
