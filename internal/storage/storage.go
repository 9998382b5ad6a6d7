// Package storage defines the Storage interface, the contract that any
// roster backend must satisfy to work with this application.
//
// Handlers (HTTP layer) should not know or care which backend they are
// talking to. By depending only on this interface:
//
//   - Switching backends = implement the interface, change the config.
//     Zero handler changes.
//
//   - Writing tests = pass any implementation; storagetest runs the same
//     behavioural checks against every backend.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-roster/internal/types"
)

// ErrNotFound is returned (possibly wrapped) when no student has the
// requested id. Callers test for it with errors.Is.
var ErrNotFound = errors.New("student not found")

// Storage is the roster contract.
//
// Ids are assigned by the backend: "1" for the first student ever
// created, then increasing by one. An id is never handed out twice,
// even after the student holding it is deleted.
type Storage interface {
	// GetStudents returns the whole roster as id -> name.
	// Returns an empty (non-nil) map when the roster is empty.
	GetStudents() (map[string]string, error)

	// SearchStudents returns every entry whose name equals name exactly.
	// Returns an empty (non-nil) map when nothing matches.
	SearchStudents(name string) (map[string]string, error)

	// CreateStudent inserts a student with a freshly assigned id.
	CreateStudent(name string) (types.Student, error)

	// GetStudentByID returns the student with the given id, or ErrNotFound.
	GetStudentByID(id string) (types.Student, error)

	// UpdateStudentByID overwrites the name of an existing student and
	// returns the updated record, or ErrNotFound.
	UpdateStudentByID(id string, name string) (types.Student, error)

	// DeleteStudentByID removes a student and returns the removed record,
	// or ErrNotFound.
	DeleteStudentByID(id string) (types.Student, error)

	// CountStudents returns the number of students in the roster.
	CountStudents() (int, error)
}
