// Package storage defines the Storage interface, the contract a database
// backend must satisfy to hold student records, and the errors every
// backend reports.
//
// Callers never see a driver error directly. A failed operation returns
// one of:
//
//   - ErrNotFound         the id matched no row (reads only)
//   - *ConnectionError    the database could not be reached or refused us
//   - *StatementError     the statement itself failed
//
// Update and delete report a miss as zero rows affected, not as an error.
package storage

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Storage is the database contract.
// Each method opens its own connection and releases it before returning.
type Storage interface {
	// CreateStudent inserts a new student and returns the generated ID.
	CreateStudent(name, nationalID string, age int) (int64, error)

	// GetStudentByID returns ErrNotFound when no row has that id.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student ordered by id.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID replaces name, national id and age of the row with
	// that id and reports how many rows changed.
	UpdateStudentByID(id int64, student types.Student) (int64, error)

	// DeleteStudentByID removes the row with that id and reports how many
	// rows went away.
	DeleteStudentByID(id int64) (int64, error)
}

// ErrNotFound is returned when a requested student does not exist.
var ErrNotFound = errors.New("student not found")

// ConnectionError means no usable connection could be acquired.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connect: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementError means the connection worked but the statement did not:
// bad SQL, a constraint violation or a scan failure.
type StatementError struct {
	Op  string
	Err error

	// Code is the server error number when the driver reports one.
	Code uint16
}

func (e *StatementError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: statement failed (%d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: statement failed: %v", e.Op, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// IsConnection reports whether err carries a *ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
