package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// busyTimeoutMS bounds how long a writer waits for the database lock held by
// another connection or process before failing with SQLITE_BUSY.
const busyTimeoutMS = 5000

// OpenDB opens the governance ledger at path and migrates it.
// If path is ":memory:", uses an in-memory database pinned to a single
// connection so every caller sees the same schema.
//
// Every transaction begins IMMEDIATE: a writer takes the database lock up
// front, so two operations on the same proposal apply one after the other.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == ":memory:"
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// dsn applies per-connection pragmas through the driver so that pooled
// connections opened later carry them too.
func dsn(path string) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_txlock=immediate", path, busyTimeoutMS)
}
