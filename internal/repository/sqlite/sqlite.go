// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite — no CGo, no C compiler, trivial
// cross-compilation. The driver registers itself with database/sql under the
// name "sqlite" via the blank import below.
//
// The sql.DB handle is a connection pool, and it is the only shared mutable
// resource in the whole server: handlers hold no state across requests, so
// concurrent DB-bound work is bounded by pool acquisition and nothing else.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// It implements repository.UserRepository, PostRepository, and
// EngagementRepository (see the compile-time checks in each file).
type DB struct {
	conn *sql.DB
}

// New creates a SQLite database at the given path and runs migrations.
// Tests point this at a throwaway file under t.TempDir(); ":memory:" would
// give each pooled connection its own empty database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection so a bad path surfaces here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — essential
	// for a web server where feed reads vastly outnumber writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The likes/comments tables
	// depend on them for referential integrity, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start.
func (db *DB) migrate() error {
	// Users. Email is UNIQUE — this is what makes a duplicate signup a
	// conflict rather than a second row. The otp columns are NULL except
	// during the pending-verification window.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id             TEXT PRIMARY KEY,
			first_name     TEXT NOT NULL DEFAULT '',
			last_name      TEXT NOT NULL DEFAULT '',
			name           TEXT NOT NULL DEFAULT '',
			email          TEXT NOT NULL UNIQUE,
			password       TEXT NOT NULL,
			date_of_birth  TEXT NOT NULL DEFAULT '',
			mobile_number  TEXT NOT NULL DEFAULT '',
			avatar_url     TEXT NOT NULL DEFAULT '',
			avatar_id      TEXT NOT NULL DEFAULT '',
			role           TEXT NOT NULL DEFAULT 'author',
			otp            TEXT,
			otp_expires_at DATETIME,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// Posts. status is constrained to the two lifecycle states at the store
	// level as well as in code.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			subject    TEXT NOT NULL,
			text       TEXT NOT NULL,
			category   TEXT NOT NULL,
			image      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
		CREATE INDEX IF NOT EXISTS idx_posts_status_created ON posts(status, created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	// Likes. The (post_id, user_id) primary key IS the at-most-one-like
	// invariant, and the toggle relies on it: INSERT OR IGNORE against this
	// constraint is the atomic "like if not already liked" step.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS likes (
			post_id    TEXT NOT NULL REFERENCES posts(id),
			user_id    TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (post_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_likes_user_id ON likes(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating likes table: %w", err)
	}

	// Comments. Append-only; there is no UPDATE or DELETE statement for this
	// table anywhere in the codebase.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id),
			user_id    TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}
