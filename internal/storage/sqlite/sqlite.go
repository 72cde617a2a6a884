// Package sqlite provides a SQLite-backed storage.Storage for local use
// and for tests.
//
// SQLite stores everything in a single file on disk: no server process,
// nothing to install beyond the driver. Each operation still opens and
// closes the file on its own, exactly like the MySQL backend does.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/sqldb"
)

const driverName = "sqlite3"

const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		national_id TEXT    NOT NULL,
		age         INTEGER NOT NULL
	)
`

// New makes sure the students table exists in the file at path and returns
// a repository that reopens that file for every operation.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so this is safe on every start.
func New(path string, log zerolog.Logger) (*sqldb.Repository, error) {
	open := Opener(path)

	db, err := open()
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return sqldb.New(open, log, sqldb.WithClassifier(Classify)), nil
}

// Opener returns an Opener for the database file at path.
func Opener(path string) sqldb.Opener {
	return func() (*sql.DB, error) {
		return sql.Open(driverName, path)
	}
}

// Classify reads go-sqlite3 error codes. Files that cannot be opened or
// are locked are connection failures; the rest are statement failures.
func Classify(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrNotADB:
			return &storage.ConnectionError{Op: op, Err: err}
		}
		return &storage.StatementError{Op: op, Err: err, Code: uint16(sqliteErr.Code)}
	}
	return sqldb.Classify(op, err)
}
