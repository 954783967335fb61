package infra

// chat_cache.question is indexed but not unique; lookups read the newest row.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS chat_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_cache_question ON chat_cache (question)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		date TEXT NOT NULL,
		adults INTEGER NOT NULL DEFAULT 1,
		recorded_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_recorded_at ON search_history (recorded_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS chat_cache (
		id BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_cache_question ON chat_cache (question)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		seq BIGSERIAL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		date TEXT NOT NULL,
		adults INTEGER NOT NULL DEFAULT 1,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// insertion order breaks recorded_at ties, like rowid on sqlite
	`ALTER TABLE search_history ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_recorded_at ON search_history (recorded_at)`,
}
