// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, storage, and the CLI all import types without depending on
// each other.
package types

import "fmt"

// Student represents one row of the students table.
//
// ID is assigned by the database on insert and never changes afterwards.
// NationalID is meant to be unique per person, but nothing here or in the
// schema enforces that.
type Student struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Age        int    `json:"age"`
}

// String renders the student the way the CLI prints it.
func (s Student) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, National ID: %s, Age: %d",
		s.ID, s.Name, s.NationalID, s.Age)
}
