package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// currentSchemaVersion is the PRAGMA user_version a fully migrated cache
// database carries. Version 1 is the base kv schema.
const currentSchemaVersion = 1

// SQLiteCache is the durable Cache implementation backed by a local SQLite
// file.
type SQLiteCache struct {
	db *sql.DB
}

// Open creates or opens the cache database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect cache database: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection to
	// avoid SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache schema: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil
	}

	// Version 0 -> 1 is the base schema, created above. Later versions add
	// their ALTER steps here, gated on the version they migrate from.

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Get reads a value. Absence is reported via ok=false, not an error.
func (c *SQLiteCache) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes a value, replacing any previous one.
func (c *SQLiteCache) Set(key string, value []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Remove deletes a key. Removing an absent key is a no-op.
func (c *SQLiteCache) Remove(key string) error {
	if _, err := c.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache remove %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
