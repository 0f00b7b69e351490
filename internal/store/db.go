// Package store keeps recently visited locations and submitted searches
// in a local SQLite database.
package store

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/razorfs/internal/debug"
)

const (
	DefaultRecentLimit = 100
	DefaultSearchLimit = 200

	// minSearchLen filters out single keystrokes.
	minSearchLen = 2
)

type DB struct {
	conn *sql.DB

	RecentLimit int
	SearchLimit int

	mu   sync.Mutex
	last int64 // last issued timestamp, keeps ordering strict
}

func NewDB() *DB {
	return &DB{RecentLimit: DefaultRecentLimit, SearchLimit: DefaultSearchLimit}
}

// DefaultPath is the database location under the user's config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "razorfs", "razorfs.db"), nil
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	// Synchronous NORMAL is safe against app crashes, faster than FULL
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	recentQuery := `
	CREATE TABLE IF NOT EXISTS recent_locations (
		path       TEXT PRIMARY KEY,
		visited_at INTEGER NOT NULL,
		visits     INTEGER NOT NULL DEFAULT 1
	);
	`
	if _, err := db.Exec(recentQuery); err != nil {
		db.Close()
		return err
	}

	searchQuery := `
	CREATE TABLE IF NOT EXISTS search_history (
		query   TEXT PRIMARY KEY,
		used_at INTEGER NOT NULL,
		uses    INTEGER NOT NULL DEFAULT 1
	);
	`
	if _, err := db.Exec(searchQuery); err != nil {
		db.Close()
		return err
	}

	d.conn = db
	debug.Log(debug.STORE, "Open: %s", dbPath)
	return nil
}

// stamp returns a strictly increasing timestamp.
func (d *DB) stamp() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now().UnixNano()
	if now <= d.last {
		now = d.last + 1
	}
	d.last = now
	return now
}

// AddRecent records a visit to path and trims the oldest visits beyond
// RecentLimit.
func (d *DB) AddRecent(path string) {
	if d == nil || d.conn == nil || path == "" {
		return
	}
	_, err := d.conn.Exec(`
		INSERT INTO recent_locations (path, visited_at) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET visited_at = excluded.visited_at, visits = visits + 1`,
		path, d.stamp())
	if err != nil {
		log.Printf("Store Error: %v", err)
		return
	}
	d.trim("recent_locations", "visited_at", d.RecentLimit)
}

// Recent returns up to limit locations, most recently visited first.
// A limit of zero or less returns all of them.
func (d *DB) Recent(limit int) ([]string, error) {
	if d == nil || d.conn == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}
	return d.queryStrings("SELECT path FROM recent_locations ORDER BY visited_at DESC LIMIT ?", limit)
}

// Visits returns how many times path was recorded.
func (d *DB) Visits(path string) (int, error) {
	if d == nil || d.conn == nil {
		return 0, nil
	}
	var n int
	err := d.conn.QueryRow("SELECT visits FROM recent_locations WHERE path = ?", path).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// AddSearch records a submitted query. Queries shorter than two characters
// after trimming are ignored.
func (d *DB) AddSearch(query string) {
	query = strings.TrimSpace(query)
	if d == nil || d.conn == nil || len([]rune(query)) < minSearchLen {
		return
	}
	_, err := d.conn.Exec(`
		INSERT INTO search_history (query, used_at) VALUES (?, ?)
		ON CONFLICT(query) DO UPDATE SET used_at = excluded.used_at, uses = uses + 1`,
		query, d.stamp())
	if err != nil {
		log.Printf("Store Error: %v", err)
		return
	}
	d.trim("search_history", "used_at", d.SearchLimit)
}

// SearchHistory returns up to limit past queries starting with prefix,
// newest first. An empty prefix matches everything and a limit of zero or
// less returns all matches.
func (d *DB) SearchHistory(prefix string, limit int) ([]string, error) {
	if d == nil || d.conn == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return d.queryStrings(`SELECT query FROM search_history WHERE query LIKE ? ESCAPE '\'
		ORDER BY used_at DESC LIMIT ?`, escaped+"%", limit)
}

// ClearSearchHistory forgets every stored query.
func (d *DB) ClearSearchHistory() error {
	if d == nil || d.conn == nil {
		return nil
	}
	_, err := d.conn.Exec("DELETE FROM search_history")
	return err
}

func (d *DB) queryStrings(query string, args ...any) ([]string, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err == nil {
			out = append(out, s)
		}
	}
	return out, rows.Err()
}

// trim keeps the newest limit rows of table. Table and column names are
// package constants, never user input.
func (d *DB) trim(table, column string, limit int) {
	if limit <= 0 {
		return
	}
	_, err := d.conn.Exec(
		"DELETE FROM "+table+" WHERE "+column+" NOT IN (SELECT "+column+" FROM "+table+" ORDER BY "+column+" DESC LIMIT ?)",
		limit)
	if err != nil {
		log.Printf("Store Error trimming %s: %v", table, err)
	}
}

func (d *DB) Close() {
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
}
