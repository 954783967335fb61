package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend string // sql (default) | redis | memory
	Prefix  string // redis key prefix
}

// Handles are the process-wide connections a backend may use.
// For the sql backend a non-nil Postgres pool takes precedence over SQLite.
type Handles struct {
	SQLite   *sql.DB
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

// NewStore builds the configured backend wrapped in a LoggingStore.
func NewStore(cfg Config, h Handles) (*LoggingStore, error) {
	switch cfg.Backend {
	case "", BackendSQL:
		if h.Postgres != nil {
			return NewLoggingStore(NewPostgresStore(h.Postgres), BackendPostgres), nil
		}
		if h.SQLite != nil {
			return NewLoggingStore(NewSQLiteStore(h.SQLite), BackendSQLite), nil
		}
		return nil, errors.New("sql cache backend needs a sqlite or postgres handle")
	case BackendRedis:
		if h.Redis == nil {
			return nil, errors.New("redis cache backend needs a redis client")
		}
		return NewLoggingStore(NewRedisStore(h.Redis, RedisConfig{Prefix: cfg.Prefix}), BackendRedis), nil
	case BackendMemory:
		return NewLoggingStore(NewMemoryStore(), BackendMemory), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
