// Package form holds the state of a student form: per-field values and
// validity, and the whole-form submission lifecycle.
//
// A Form is safe for concurrent use; the terminal UI reads it from the event
// loop while submissions run on other goroutines.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

// Field names, matching the JSON names of types.StudentDraft.
const (
	Name   = "name"
	Email  = "email"
	Branch = "branch"
)

// Fields lists the form fields in display order.
var Fields = []string{Name, Email, Branch}

var goFieldNames = map[string]string{
	Name:   "Name",
	Email:  "Email",
	Branch: "Branch",
}

// ValidityState is the state of a single field.
type ValidityState int

const (
	Untouched ValidityState = iota
	Valid
	Invalid
)

func (s ValidityState) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "untouched"
	}
}

// Validity is a field's state plus, when invalid, why.
type Validity struct {
	State   ValidityState
	Reason  string // one of the validation.Reason* constants
	Message string
}

// SubmitState is the whole-form submission state.
type SubmitState int

const (
	Idle SubmitState = iota
	Submitting
	Succeeded
	Failed
)

func (s SubmitState) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrInFlight is returned by Begin while a submission is already running.
var ErrInFlight = errors.New("form: submission already in flight")

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Fields map[string]Validity
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name].Message)
	}
	return fmt.Sprintf("form: invalid fields: %s", strings.Join(parts, ", "))
}

// Form is the state of one student form.
type Form struct {
	mu       sync.Mutex
	values   map[string]string
	validity map[string]Validity
	state    SubmitState
}

// New returns an empty, untouched form.
func New() *Form {
	f := &Form{}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.values = make(map[string]string, len(Fields))
	f.validity = make(map[string]Validity, len(Fields))
	for _, name := range Fields {
		f.values[name] = ""
		f.validity[name] = Validity{State: Untouched}
	}
	f.state = Idle
}

// Reset clears every value and marks every field untouched.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// Fill loads a draft without touching validity, as when pre-populating an
// edit form.
func (f *Form) Fill(d types.StudentDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.values[Name] = d.Name
	f.values[Email] = d.Email
	f.values[Branch] = d.Branch
}

// Set updates a field value and validates that field.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[field]; !ok {
		return
	}
	f.values[field] = value
	f.validity[field] = f.check(field)
}

// Value returns the current value of a field.
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Validity returns the current validity of a field.
func (f *Form) Validity(field string) Validity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validity[field]
}

// MarkInvalid flags a field with a reason that did not come from the local
// rules, such as a server-reported duplicate.
func (f *Form) MarkInvalid(field, reason, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[field]; !ok {
		return
	}
	f.validity[field] = Validity{State: Invalid, Reason: reason, Message: message}
}

// Draft builds a StudentDraft from the current values.
func (f *Form) Draft() types.StudentDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft()
}

func (f *Form) draft() types.StudentDraft {
	return types.StudentDraft{
		Name:   f.values[Name],
		Email:  f.values[Email],
		Branch: f.values[Branch],
	}
}

// Validate checks every field, marks each one touched, and returns a
// *ValidationError listing the invalid ones, or nil.
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	invalid := make(map[string]Validity)
	for _, name := range Fields {
		v := f.check(name)
		// A server-side reason stays until the value changes.
		if cur := f.validity[name]; cur.State == Invalid && cur.Reason == validation.ReasonDuplicated && v.State == Valid {
			v = cur
		}
		f.validity[name] = v
		if v.State == Invalid {
			invalid[name] = v
		}
	}

	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}

// HasInvalid reports whether any field is currently invalid.
func (f *Form) HasInvalid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.validity {
		if v.State == Invalid {
			return true
		}
	}
	return false
}

// check runs the local rules for one field. Callers hold f.mu.
func (f *Form) check(field string) Validity {
	errs := validation.Field(f.draft(), goFieldNames[field])
	if len(errs) == 0 {
		return Validity{State: Valid}
	}
	return Validity{State: Invalid, Reason: errs[0].Reason, Message: errs[0].Message}
}

// Begin moves the form to Submitting. It returns ErrInFlight when a
// submission is already running.
func (f *Form) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return ErrInFlight
	}
	f.state = Submitting
	return nil
}

// Finish ends the running submission.
func (f *Form) Finish(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ok {
		f.state = Succeeded
	} else {
		f.state = Failed
	}
}

// State returns the submission state.
func (f *Form) State() SubmitState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// InFlight reports whether a submission is running.
func (f *Form) InFlight() bool {
	return f.State() == Submitting
}
