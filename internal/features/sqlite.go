package features

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS feature_flags (
    storage_key TEXT NOT NULL,
    flag_key TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (storage_key, flag_key)
);
`

// SQLiteCache stores mappings in a SQLite database, one row per flag.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens or creates the database at path.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve cache path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite3", resolved+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create feature_flags table: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Load returns every flag stored under storageKey.
func (c *SQLiteCache) Load(storageKey string) (map[string]bool, error) {
	rows, err := c.db.Query(`SELECT flag_key, enabled FROM feature_flags WHERE storage_key = ?`, storageKey)
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]bool)
	for rows.Next() {
		var key string
		var enabled bool
		if err := rows.Scan(&key, &enabled); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		values[key] = enabled
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read flags: %w", err)
	}
	return values, nil
}

// Save replaces every flag under storageKey in one transaction.
func (c *SQLiteCache) Save(storageKey string, values map[string]bool) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM feature_flags WHERE storage_key = ?`, storageKey); err != nil {
		return fmt.Errorf("clear flags: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO feature_flags (storage_key, flag_key, enabled) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for key, enabled := range values {
		if _, err := stmt.Exec(storageKey, key, enabled); err != nil {
			return fmt.Errorf("insert flag %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
