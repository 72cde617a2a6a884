// Package sqldb implements storage.Storage on top of database/sql.
//
// The repository does not own a connection pool. Every operation asks its
// Opener for a fresh handle, pings it, runs exactly one prepared statement
// and closes the handle again, whatever the outcome. Backends (mysql,
// sqlite) only supply the Opener and, optionally, a Classifier that knows
// how to read their driver's errors.
package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Opener returns a new, unused database handle.
type Opener func() (*sql.DB, error)

// Classifier turns a driver error raised while running op into a
// *storage.ConnectionError or a *storage.StatementError.
type Classifier func(op string, err error) error

// Repository is the database/sql implementation of storage.Storage.
type Repository struct {
	open     Opener
	classify Classifier
	log      zerolog.Logger
}

var _ storage.Storage = (*Repository)(nil)

// Option customises a Repository.
type Option func(*Repository)

// WithClassifier replaces the default error classification.
func WithClassifier(c Classifier) Option {
	return func(r *Repository) { r.classify = c }
}

// New returns a Repository that draws a connection from open on every call.
func New(open Opener, log zerolog.Logger, opts ...Option) *Repository {
	r := &Repository{
		open:     open,
		classify: Classify,
		log:      log.With().Str("component", "storage").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify is the default Classifier. Broken connections count as
// connection failures; everything else is a statement failure.
func Classify(op string, err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return &storage.ConnectionError{Op: op, Err: err}
	}
	return &storage.StatementError{Op: op, Err: err}
}

// connect acquires a live single-connection handle for op.
// The caller must hand the handle to release.
func (r *Repository) connect(op string) (*sql.DB, error) {
	db, err := r.open()
	if err != nil {
		return nil, r.fail(op, &storage.ConnectionError{Op: op, Err: err})
	}
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; Ping forces the dial and the handshake so that a
	// bad host or bad credentials surface here and not mid-statement.
	if err := db.Ping(); err != nil {
		r.release(op, db)
		return nil, r.fail(op, &storage.ConnectionError{Op: op, Err: err})
	}
	return db, nil
}

func (r *Repository) release(op string, db *sql.DB) {
	if err := db.Close(); err != nil {
		r.log.Warn().Str("op", op).Err(err).Msg("closing connection failed")
	}
}

// fail logs err at the operation boundary and returns it unchanged.
func (r *Repository) fail(op string, err error) error {
	r.log.Error().Str("op", op).Err(err).Msg("storage operation failed")
	return err
}

func (r *Repository) statementError(op, step string, err error) error {
	return r.fail(op, r.classify(op, fmt.Errorf("%s: %w", step, err)))
}

// exec runs one mutating statement and returns the driver's result.
func (r *Repository) exec(op, query string, args ...any) (sql.Result, error) {
	db, err := r.connect(op)
	if err != nil {
		return nil, err
	}
	defer r.release(op, db)

	stmt, err := db.Prepare(query)
	if err != nil {
		return nil, r.statementError(op, "prepare", err)
	}
	defer stmt.Close()

	r.log.Debug().Str("op", op).Str("sql", query).Interface("args", args).Msg("executing statement")

	result, err := stmt.Exec(args...)
	if err != nil {
		return nil, r.statementError(op, "exec", err)
	}
	return result, nil
}

// CreateStudent inserts one row and returns the id the database assigned.
func (r *Repository) CreateStudent(name, nationalID string, age int) (int64, error) {
	const op = "CreateStudent"

	result, err := r.exec(op,
		"INSERT INTO students (name, national_id, age) VALUES (?, ?, ?)",
		name, nationalID, age,
	)
	if err != nil {
		return 0, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, r.statementError(op, "last insert id", err)
	}

	r.log.Info().Str("op", op).Int64("id", lastID).Msg("student inserted")
	return lastID, nil
}

// GetStudentByID fetches exactly one student by primary key.
func (r *Repository) GetStudentByID(id int64) (types.Student, error) {
	const op = "GetStudentByID"

	db, err := r.connect(op)
	if err != nil {
		return types.Student{}, err
	}
	defer r.release(op, db)

	stmt, err := db.Prepare(
		"SELECT id, name, national_id, age FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, r.statementError(op, "prepare", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.NationalID,
		&student.Age,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Info().Str("op", op).Int64("id", id).Msg("student not found")
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, r.statementError(op, "scan", err)
	}

	return student, nil
}

// GetStudents returns all rows in id order.
func (r *Repository) GetStudents() ([]types.Student, error) {
	const op = "GetStudents"

	db, err := r.connect(op)
	if err != nil {
		return nil, err
	}
	defer r.release(op, db)

	stmt, err := db.Prepare(
		"SELECT id, name, national_id, age FROM students ORDER BY id",
	)
	if err != nil {
		return nil, r.statementError(op, "prepare", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, r.statementError(op, "query", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.NationalID,
			&student.Age,
		); err != nil {
			return nil, r.statementError(op, "scan row", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, r.statementError(op, "rows iteration", err)
	}

	return students, nil
}

// UpdateStudentByID overwrites every column except id.
// Zero rows affected means no student has that id.
func (r *Repository) UpdateStudentByID(id int64, student types.Student) (int64, error) {
	const op = "UpdateStudentByID"

	result, err := r.exec(op,
		"UPDATE students SET name = ?, national_id = ?, age = ? WHERE id = ?",
		student.Name, student.NationalID, student.Age, id,
	)
	if err != nil {
		return 0, err
	}
	return r.affected(op, id, result)
}

// DeleteStudentByID removes the row with that id.
// Zero rows affected means no student has that id.
func (r *Repository) DeleteStudentByID(id int64) (int64, error) {
	const op = "DeleteStudentByID"

	result, err := r.exec(op, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return r.affected(op, id, result)
}

func (r *Repository) affected(op string, id int64, result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, r.statementError(op, "rows affected", err)
	}
	if n == 0 {
		r.log.Info().Str("op", op).Int64("id", id).Msg("student not found")
	} else {
		r.log.Info().Str("op", op).Int64("id", id).Int64("rows", n).Msg("student changed")
	}
	return n, nil
}
