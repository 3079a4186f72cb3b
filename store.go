package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,  -- never the raw IP
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
CREATE TABLE IF NOT EXISTS section_views (
	slug TEXT PRIMARY KEY,
	views INTEGER NOT NULL DEFAULT 0,
	last_viewed DATETIME
);`

// openDB opens (or creates) the analytics database and applies the schema.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc's driver serialises writes; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (a *app) recordVisitor(hashedIP, userAgent, path string) error {
	_, err := a.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, time.Now().UTC())
	return err
}

func (a *app) recordSectionView(slug string) error {
	_, err := a.db.Exec(`
		INSERT INTO section_views (slug, views, last_viewed) VALUES (?, 1, ?)
		ON CONFLICT(slug) DO UPDATE SET views = views + 1, last_viewed = excluded.last_viewed
	`, slug, time.Now().UTC())
	return err
}

// cleanupOldVisitorData drops visitor rows older than the retention window.
func (a *app) cleanupOldVisitorData() (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, -a.cfg.VisitorRetentionMonths, 0)
	result, err := a.db.Exec(`DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
