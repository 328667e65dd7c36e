package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps the telemetry store connection
type DB struct {
	conn   *sql.DB
	driver string
}

// OpenDB opens (or creates) the telemetry store. driver is "sqlite" or "postgres".
func OpenDB(driver, dsn string) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// Enable WAL mode for better concurrency
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, err
		}
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind rewrites ? placeholders to $N for postgres
func (db *DB) rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	idCol := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == "postgres" {
		idCol = "BIGSERIAL PRIMARY KEY"
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id ` + idCol + `,
			event_type TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			player_id TEXT,
			data TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_type_time ON analytics_events(event_type, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_run ON analytics_events(run_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			logger.WithError(err).Error("DB migration error")
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
