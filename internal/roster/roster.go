// Package roster holds the controllers behind the terminal client's three
// screens: the student list, the add form and the edit modal.
//
// Controllers own their state and talk to the outside through small
// interfaces. API is the REST resource (client.Client implements it). Table,
// Modal, Notifier and Confirmer are the UI widgets; the controllers only
// signal them and never reach into their internals.
//
// Controller methods that call the API block until the request completes and
// are meant to run off the UI event loop. Their state is guarded by mutexes.
package roster

import (
	"context"
	"errors"
	"time"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// API is the student resource.
type API interface {
	List(ctx context.Context) ([]types.Student, error)
	Create(ctx context.Context, draft types.StudentDraft) (types.Student, error)
	Update(ctx context.Context, id int64, draft types.StudentDraft) (types.Student, error)
	Delete(ctx context.Context, id int64) error
}

// Table renders the student collection. Render always follows Teardown and
// rebuilds from scratch.
type Table interface {
	Teardown()
	Render(students []types.Student)
}

// Modal is the dialog hosting the edit form.
type Modal interface {
	Open()
	Close()
}

// Notifier surfaces messages that are not tied to a form field.
type Notifier interface {
	// Alert shows a blocking notice the user has to dismiss.
	Alert(msg string)
	// Flash shows a transient acknowledgement that clears itself after ttl.
	Flash(msg string, ttl time.Duration)
}

// Confirmer asks the user a yes/no question and blocks until answered.
// A cancelled ctx counts as "no".
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// User-facing texts.
const (
	DeletePrompt      = "Are you sure you want to delete this student?"
	DeletedMessage    = "Student deleted successfully."
	LoadFailedAlert   = "Failed to load students. Please try again."
	DeleteFailedAlert = "Failed to delete student. Please try again."
	CreateFailedAlert = "Failed to create student. Please try again."
	UpdateFailedAlert = "Failed to update student. Please try again."
	DuplicatedMessage = "a student with this email already exists"
	DefaultAckDelay   = 2 * time.Second
)

var (
	// ErrBusy is returned when the same action is already in flight.
	ErrBusy = errors.New("roster: action already in flight")

	// ErrUnknownStudent is returned for an ID not in the loaded collection.
	ErrUnknownStudent = errors.New("roster: unknown student")

	// ErrNotOpen is returned when submitting an edit modal that is closed.
	ErrNotOpen = errors.New("roster: edit modal is not open")

	// ErrSaveInFlight is returned when dismissing an edit modal whose save
	// has not come back yet.
	ErrSaveInFlight = errors.New("roster: save in progress")
)
