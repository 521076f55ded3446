// Package storage defines the Storage interface, the contract any database
// backend must satisfy to serve the student resource.
//
// Handlers depend only on this interface, so tests can pass a fake and the
// SQLite implementation can be swapped without touching the HTTP layer.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-roster/internal/types"
)

var (
	// ErrNotFound is returned when no student has the requested ID.
	ErrNotFound = errors.New("student not found")

	// ErrEmailExists is returned when another student already uses the email.
	ErrEmailExists = errors.New("email already exists")
)

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new student and returns the stored record,
	// including its generated ID and creation timestamp.
	// Returns ErrEmailExists when the email is taken.
	CreateStudent(ctx context.Context, draft types.StudentDraft) (types.Student, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound if there is none.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student, newest first.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID replaces the fields of the student with the given ID.
	// An unknown ID creates the student under that ID.
	// Returns ErrEmailExists when the new email belongs to another student.
	UpdateStudentByID(ctx context.Context, id int64, draft types.StudentDraft) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	// Returns ErrNotFound if there is none.
	DeleteStudentByID(ctx context.Context, id int64) error
}
