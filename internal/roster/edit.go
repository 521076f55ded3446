package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/students-roster/internal/client"
	"github.com/aanand-mishra/students-roster/internal/form"
	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

// DismissReason says how the edit modal was closed. It only matters for
// diagnostics: every reason discards unsaved edits.
type DismissReason int

const (
	DismissClosed DismissReason = iota
	DismissEsc
	DismissBackdrop
)

func (r DismissReason) String() string {
	switch r {
	case DismissEsc:
		return "by pressing ESC"
	case DismissBackdrop:
		return "by clicking on a backdrop"
	default:
		return "with: close"
	}
}

// EditModal owns the update form. It is created by, and reloads, a
// ListController.
type EditModal struct {
	api    API
	modal  Modal
	notify Notifier
	reload func(context.Context)
	log    *slog.Logger
	form   *form.Form

	mu        sync.Mutex
	id        int64
	open      bool
	lastClose string
}

func newEditModal(api API, modal Modal, notify Notifier, reload func(context.Context), log *slog.Logger) *EditModal {
	return &EditModal{
		api:    api,
		modal:  modal,
		notify: notify,
		reload: reload,
		log:    log.With(slog.String("controller", "edit")),
		form:   form.New(),
	}
}

// Open fills the form with a copy of s and opens the modal.
func (e *EditModal) Open(s types.Student) {
	e.form.Fill(s.Draft())

	e.mu.Lock()
	e.id = s.ID
	e.open = true
	e.mu.Unlock()

	e.log.Debug("edit modal opened", slog.Int64("id", s.ID))
	e.modal.Open()
}

// Dismiss closes the modal without saving. It refuses with ErrSaveInFlight
// while a save is running, so the form is never reset under a pending
// update.
func (e *EditModal) Dismiss(reason DismissReason) error {
	return e.close(fmt.Sprintf("Dismissed %s", reason), false)
}

func (e *EditModal) close(result string, saved bool) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return nil
	}
	if !saved && e.form.InFlight() {
		e.mu.Unlock()
		e.log.Debug("edit modal kept open during save", slog.String("result", result))
		return ErrSaveInFlight
	}
	e.open = false
	e.lastClose = result
	id := e.id
	e.mu.Unlock()

	e.form.Reset()
	e.log.Debug("edit modal closed", slog.Int64("id", id), slog.String("result", result))
	e.modal.Close()
	return nil
}

// Submit validates the form and updates the student. On success the modal
// closes and the list reloads. On failure the modal stays open: a duplicate
// email marks the email field, anything else raises an alert.
func (e *EditModal) Submit(ctx context.Context) error {
	if !e.IsOpen() {
		return ErrNotOpen
	}
	if err := e.form.Validate(); err != nil {
		return err
	}

	// Begin under e.mu so a concurrent Dismiss either closes first or sees
	// the save in flight.
	e.mu.Lock()
	id, open := e.id, e.open
	if !open {
		e.mu.Unlock()
		return ErrNotOpen
	}
	err := e.form.Begin()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	draft := e.form.Draft()
	if _, err := e.api.Update(ctx, id, draft); err != nil {
		e.form.Finish(false)
		e.log.Error("error updating student",
			slog.Int64("id", id),
			slog.String("error", err.Error()))

		if client.IsDuplicateEmail(err) {
			e.form.MarkInvalid(form.Email, validation.ReasonDuplicated, DuplicatedMessage)
		} else {
			e.notify.Alert(UpdateFailedAlert)
		}
		return err
	}

	e.form.Finish(true)
	e.log.Info("student updated", slog.Int64("id", id))
	e.close("Closed with: saved", true)
	e.reload(ctx)
	return nil
}

// Set updates and validates one field.
func (e *EditModal) Set(field, value string) {
	e.form.Set(field, value)
}

// Form exposes the form state for rendering.
func (e *EditModal) Form() *form.Form {
	return e.form
}

// StudentID returns the ID being edited.
func (e *EditModal) StudentID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// IsOpen reports whether the modal is open.
func (e *EditModal) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// LastClose describes how the modal was last closed, e.g.
// "Dismissed by pressing ESC" or "Closed with: saved".
func (e *EditModal) LastClose() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastClose
}
