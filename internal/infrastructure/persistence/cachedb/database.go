// Package cachedb persists stale-while-revalidate cache entries across
// restarts, the server-side analog of the admin UI's localStorage store.
package cachedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"                      // SQLite driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver

	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	timestamp  INTEGER NOT NULL,
	ttl_ms     INTEGER NOT NULL
);
`

// Config holds connection settings for the cache database.
type Config struct {
	SQLitePath    string
	TursoDatabase string
	TursoToken    string
}

// Database wraps the cache persistence connection.
type Database struct {
	Conn     *sql.DB
	UseTurso bool
}

// NewDatabase opens the cache store. Turso is tried first when credentials
// are configured; local SQLite is the fallback.
func NewDatabase(config *Config) (*Database, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if config.TursoDatabase != "" && config.TursoToken != "" {
		connStr := config.TursoDatabase + "?authToken=" + config.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			if pingErr := conn.Ping(); pingErr == nil {
				useTurso = true
			} else {
				conn.Close()
				conn = nil
			}
		}
	}

	if conn == nil {
		dbDir := filepath.Dir(config.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite cache database: %w", err)
		}

		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("SQLite cache database ping failed: %w", err)
		}
		useTurso = false
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Database{
		Conn:     conn,
		UseTurso: useTurso,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}

// GetConnectionInfo returns a string describing the database connection
func (db *Database) GetConnectionInfo() string {
	if db.UseTurso {
		return "Turso (cache store)"
	}
	return "SQLite (cache store)"
}

// Save upserts one cache entry.
func (db *Database) Save(entry *types.Entry) error {
	_, err := db.Conn.Exec(
		`INSERT INTO cache_entries (key, data, timestamp, ttl_ms) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data=excluded.data, timestamp=excluded.timestamp, ttl_ms=excluded.ttl_ms`,
		entry.Key, []byte(entry.Data), entry.Timestamp.UnixMilli(), entry.TTL.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist cache entry %s: %w", entry.Key, err)
	}
	return nil
}

// Delete removes one cache entry.
func (db *Database) Delete(key string) error {
	if _, err := db.Conn.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}

// LoadAll returns every persisted entry, skipping rows that fail to scan.
func (db *Database) LoadAll() ([]*types.Entry, error) {
	rows, err := db.Conn.Query(`SELECT key, data, timestamp, ttl_ms FROM cache_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.Entry
	for rows.Next() {
		var key string
		var data []byte
		var timestampMs, ttlMs int64
		if err := rows.Scan(&key, &data, &timestampMs, &ttlMs); err != nil {
			continue
		}
		entries = append(entries, &types.Entry{
			Key:       key,
			Data:      data,
			Timestamp: time.UnixMilli(timestampMs).UTC(),
			TTL:       time.Duration(ttlMs) * time.Millisecond,
		})
	}

	return entries, rows.Err()
}

// PurgeOlderThan deletes persisted entries written before the cutoff.
func (db *Database) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := db.Conn.Exec(`DELETE FROM cache_entries WHERE timestamp < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return result.RowsAffected()
}
