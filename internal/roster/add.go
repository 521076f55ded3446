package roster

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/students-roster/internal/client"
	"github.com/aanand-mishra/students-roster/internal/form"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

// AddForm owns the create form.
type AddForm struct {
	api    API
	notify Notifier
	log    *slog.Logger
	form   *form.Form

	mu        sync.Mutex
	submitted bool
}

// NewAddForm returns an empty add form.
func NewAddForm(api API, notify Notifier, log *slog.Logger) *AddForm {
	if log == nil {
		log = slog.Default()
	}
	return &AddForm{
		api:    api,
		notify: notify,
		log:    log.With(slog.String("controller", "add")),
		form:   form.New(),
	}
}

// Form exposes the form state for rendering.
func (a *AddForm) Form() *form.Form {
	return a.form
}

// Set updates and validates one field.
func (a *AddForm) Set(field, value string) {
	a.form.Set(field, value)
}

// Submit validates the form and, if every field is valid, creates the
// student. An invalid form returns a *form.ValidationError without calling
// the API. A duplicate email marks the email field; any other failure raises
// an alert. Entered values are kept on failure so the user can retry.
func (a *AddForm) Submit(ctx context.Context) error {
	if err := a.form.Validate(); err != nil {
		return err
	}
	if err := a.form.Begin(); err != nil {
		return err
	}

	draft := a.form.Draft()
	created, err := a.api.Create(ctx, draft)
	if err != nil {
		a.form.Finish(false)
		a.setSubmitted(false)
		a.log.Error("error creating student",
			slog.String("email", draft.Email),
			slog.String("error", err.Error()))

		if client.IsDuplicateEmail(err) {
			a.form.MarkInvalid(form.Email, validation.ReasonDuplicated, DuplicatedMessage)
		} else {
			a.notify.Alert(CreateFailedAlert)
		}
		return err
	}

	a.form.Finish(true)
	a.setSubmitted(true)
	a.log.Info("student created", slog.Int64("id", created.ID))
	return nil
}

// Reset clears the form for another entry.
func (a *AddForm) Reset() {
	a.form.Reset()
	a.setSubmitted(false)
}

// Submitted reports whether the last submission succeeded.
func (a *AddForm) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// InFlight reports whether a submission is running.
func (a *AddForm) InFlight() bool {
	return a.form.InFlight()
}

func (a *AddForm) setSubmitted(v bool) {
	a.mu.Lock()
	a.submitted = v
	a.mu.Unlock()
}
