package infra

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSQLiteCreatesTables(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flyai.db")

	db, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"chat_cache", "search_history"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenSQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flyai.db")

	for i := 0; i < 2; i++ {
		db, err := OpenSQLite(ctx, path)
		if err != nil {
			t.Fatalf("OpenSQLite #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestOpenPostgres(t *testing.T) {
	dsn := os.Getenv("FLYAI_TEST_DSN")
	if dsn == "" {
		t.Skip("FLYAI_TEST_DSN not set")
	}

	pool, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	pool.Close()
}

func TestOpenRedis(t *testing.T) {
	addr := os.Getenv("FLYAI_TEST_REDIS")
	if addr == "" {
		t.Skip("FLYAI_TEST_REDIS not set")
	}

	client, err := OpenRedis(context.Background(), RedisOptions{Addr: addr})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	client.Close()
}
