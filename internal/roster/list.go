package roster

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// LoadState is the state of the current load cycle.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Loaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load failed"
	default:
		return "idle"
	}
}

// ListOptions configures a ListController.
type ListOptions struct {
	// AckDelay is how long the delete acknowledgement stays visible.
	AckDelay time.Duration
	Logger   *slog.Logger
}

// ListController owns the authoritative student collection. The collection
// is replaced wholesale on each load and never mutated in place.
type ListController struct {
	api     API
	table   Table
	notify  Notifier
	confirm Confirmer
	edit    *EditModal

	ackDelay time.Duration
	log      *slog.Logger

	// loadMu serialises loads so a reload requested during a load runs
	// after it instead of racing it.
	loadMu sync.Mutex

	mu       sync.Mutex
	students []types.Student
	state    LoadState
	err      error
	deleting bool
}

// NewListController wires a list controller and the edit modal it opens.
func NewListController(api API, table Table, modal Modal, notify Notifier, confirm Confirmer, opts ListOptions) *ListController {
	if opts.AckDelay <= 0 {
		opts.AckDelay = DefaultAckDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	l := &ListController{
		api:      api,
		table:    table,
		notify:   notify,
		confirm:  confirm,
		ackDelay: opts.AckDelay,
		log:      opts.Logger.With(slog.String("controller", "list")),
		students: []types.Student{},
	}
	l.edit = newEditModal(api, modal, notify, l.Load, opts.Logger)
	return l
}

// EditModal returns the edit modal controller owned by the list.
func (l *ListController) EditModal() *EditModal {
	return l.edit
}

// Load fetches the collection and re-renders the table from scratch.
// A failed load leaves an empty collection and an empty table, records the
// error and raises an alert; it is never returned.
func (l *ListController) Load(ctx context.Context) {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	l.mu.Lock()
	l.state = Loading
	l.mu.Unlock()

	students, err := l.api.List(ctx)

	l.mu.Lock()
	if err != nil {
		l.log.Error("error loading students", slog.String("error", err.Error()))
		l.students = []types.Student{}
		l.state = LoadFailed
		l.err = err
	} else {
		if students == nil {
			students = []types.Student{}
		}
		l.students = students
		l.state = Loaded
		l.err = nil
		l.log.Debug("students loaded", slog.Int("count", len(students)))
	}
	snapshot := slices.Clone(l.students)
	l.mu.Unlock()

	l.table.Teardown()
	l.table.Render(snapshot)

	if err != nil {
		l.notify.Alert(LoadFailedAlert)
	}
}

// Delete asks for confirmation and, if given, deletes the student and
// reloads the list. A declined confirmation returns nil without calling the
// API. A failed delete raises an alert and leaves the table as it is.
func (l *ListController) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	if l.deleting {
		l.mu.Unlock()
		return ErrBusy
	}
	l.deleting = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.deleting = false
		l.mu.Unlock()
	}()

	if !l.confirm.Confirm(ctx, DeletePrompt) {
		l.log.Debug("delete declined", slog.Int64("id", id))
		return nil
	}

	if err := l.api.Delete(ctx, id); err != nil {
		l.log.Error("error deleting student",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		l.notify.Alert(DeleteFailedAlert)
		return err
	}

	l.log.Info("student deleted", slog.Int64("id", id))
	l.notify.Flash(DeletedMessage, l.ackDelay)
	l.Load(ctx)
	return nil
}

// Edit opens the edit modal with a copy of the student's current values.
func (l *ListController) Edit(id int64) error {
	l.mu.Lock()
	idx := slices.IndexFunc(l.students, func(s types.Student) bool { return s.ID == id })
	if idx < 0 {
		l.mu.Unlock()
		return ErrUnknownStudent
	}
	selected := l.students[idx]
	l.mu.Unlock()

	l.edit.Open(selected)
	return nil
}

// Students returns a copy of the held collection.
func (l *ListController) Students() []types.Student {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.students)
}

// State returns the state of the last load cycle.
func (l *ListController) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error of the last failed load, or nil.
func (l *ListController) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Deleting reports whether a delete is in flight.
func (l *ListController) Deleting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deleting
}
