// Package tui is the bubbletea terminal client: a student table, an add view
// and an edit modal driven by the roster controllers.
//
// Controller calls that hit the network run in tea.Cmd goroutines. The
// widgets they signal (table, modal, notices, confirmation) are implemented
// by a bridge that posts messages back onto the event loop, so Update is the
// only place model state changes.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aanand-mishra/students-roster/internal/roster"
)

// ViewMode is the active screen.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewAdd
)

// Button labels.
const (
	SubmitButton = "Submit"
	SaveButton   = "Save"
	CloseButton  = "Close"
)

// Command results.
type (
	loadedMsg struct {
		err error
	}

	deleteDoneMsg struct {
		err error
	}

	addDoneMsg struct {
		err error
	}

	editDoneMsg struct {
		err error
	}

	flashExpiredMsg struct {
		seq int
	}
)

// Options configures the terminal client.
type Options struct {
	PageLength  int
	PageLengths []int
	AckDelay    time.Duration
	Logger      *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	bridge *bridge
	log    *slog.Logger

	list *roster.ListController
	add  *roster.AddForm
	edit *roster.EditModal

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	view     ViewMode
	table    studentTable
	addForm  formView
	editForm formView

	loading   bool
	loadErr   error
	deleting  bool
	modalOpen bool
	alert     string
	confirm   *confirmMsg
	flash     string
	flashSeq  int

	width  int
	height int
}

// New wires the roster controllers to a fresh model. api is usually a
// *client.Client.
func New(ctx context.Context, api roster.API, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	b := newBridge()
	list := roster.NewListController(api, b, b, b, b, roster.ListOptions{
		AckDelay: opts.AckDelay,
		Logger:   opts.Logger,
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = WarningStyle

	return Model{
		ctx:      ctx,
		bridge:   b,
		log:      opts.Logger.With(slog.String("component", "tui")),
		list:     list,
		add:      roster.NewAddForm(api, b, opts.Logger),
		edit:     list.EditModal(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		table:    newStudentTable(opts.PageLength, opts.PageLengths),
		addForm:  newFormView(SubmitButton),
		editForm: newFormView(SaveButton, CloseButton),
		width:    80,
		height:   24,
	}
}

// Close releases goroutines blocked on the bridge. Call it after the
// program exits.
func (m Model) Close() {
	m.bridge.close()
}

// Init starts listening for widget events and loads the list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.bridge.events),
		m.spinner.Tick,
		m.loadCmd(),
	)
}

func (m Model) loadCmd() tea.Cmd {
	list, ctx := m.list, m.ctx
	return func() tea.Msg {
		list.Load(ctx)
		return loadedMsg{err: list.Err()}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	list, ctx := m.list, m.ctx
	return func() tea.Msg {
		return deleteDoneMsg{err: list.Delete(ctx, id)}
	}
}

func (m Model) addCmd() tea.Cmd {
	add, ctx := m.add, m.ctx
	return func() tea.Msg {
		return addDoneMsg{err: add.Submit(ctx)}
	}
}

func (m Model) editCmd() tea.Cmd {
	edit, ctx := m.edit, m.ctx
	return func() tea.Msg {
		return editDoneMsg{err: edit.Submit(ctx)}
	}
}

func flashExpireCmd(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ev, ok := msg.(bridgeEvent); ok {
		next, cmd := m.handleEvent(ev)
		return next, tea.Batch(cmd, waitForEvent(next.bridge.events))
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.setWidth(msg.Width - 4)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case deleteDoneMsg:
		m.deleting = false
		return m, nil

	case addDoneMsg, editDoneMsg:
		// Field state and alerts were already applied by the controller.
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleEvent(ev bridgeEvent) (Model, tea.Cmd) {
	switch ev := ev.(type) {
	case teardownMsg:
		m.table.teardown()
	case renderMsg:
		m.table.render(ev.students)
		m.loading = false
	case modalOpenMsg:
		m.modalOpen = true
		return m, m.editForm.load(m.edit.Form())
	case modalCloseMsg:
		m.modalOpen = false
	case alertMsg:
		m.alert = ev.text
	case flashMsg:
		m.flashSeq++
		m.flash = ev.text
		return m, flashExpireCmd(m.flashSeq, ev.ttl)
	case confirmMsg:
		m.confirm = &ev
	}
	return m, nil
}

// handleKey routes keys to the topmost layer: alert, confirmation, edit
// modal, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.alert != "":
		if key.Matches(msg, m.keys.Submit, m.keys.Back) {
			m.alert = ""
		}
		return m, nil

	case m.confirm != nil:
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.answer(true), nil
		case key.Matches(msg, m.keys.No):
			return m.answer(false), nil
		}
		return m, nil

	case m.modalOpen:
		return m.handleModalKey(msg)

	case m.view == ViewAdd:
		return m.handleAddKey(msg)
	}

	return m.handleListKey(msg)
}

func (m Model) answer(yes bool) Model {
	m.confirm.reply <- yes
	m.confirm = nil
	return m
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.table.searching() {
		if key.Matches(msg, m.keys.Back, m.keys.Submit) {
			m.table.blurSearch()
			return m, nil
		}
		return m, m.table.update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m, m.table.focusSearch()

	case key.Matches(msg, m.keys.PrevPage):
		m.table.prevPage()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.table.nextPage()
		return m, nil

	case key.Matches(msg, m.keys.PageLength):
		m.table.cyclePageLength()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.startLoad()

	case key.Matches(msg, m.keys.Add):
		m.view = ViewAdd
		return m, m.addForm.load(m.add.Form())

	case key.Matches(msg, m.keys.Edit):
		s, ok := m.table.selected()
		if !ok {
			return m, nil
		}
		if err := m.list.Edit(s.ID); err != nil {
			m.log.Warn("cannot edit student", slog.Int64("id", s.ID), slog.String("error", err.Error()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		s, ok := m.table.selected()
		if !ok || m.deleting {
			return m, nil
		}
		m.deleting = true
		return m, m.deleteCmd(s.ID)
	}

	return m, m.table.update(msg)
}

func (m Model) startLoad() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.add.Submitted() {
		switch {
		case key.Matches(msg, m.keys.AddAnother):
			m.add.Reset()
			return m, m.addForm.load(m.add.Form())
		case key.Matches(msg, m.keys.Back):
			m.add.Reset()
			return m.showList()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.showList()
	case key.Matches(msg, m.keys.NextField):
		return m, m.addForm.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.addForm.move(-1)
	case key.Matches(msg, m.keys.Save):
		return m.submitAdd()
	case key.Matches(msg, m.keys.Submit):
		if _, ok := m.addForm.button(); ok {
			return m.submitAdd()
		}
		return m, m.addForm.move(1)
	}

	field, value, changed, cmd := m.addForm.update(msg)
	if changed {
		m.add.Set(field, value)
	}
	return m, cmd
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	if m.add.InFlight() {
		return m, nil
	}
	return m, m.addCmd()
}

// showList switches to the list view, which reloads on activation.
func (m Model) showList() (tea.Model, tea.Cmd) {
	m.view = ViewList
	return m.startLoad()
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.dismiss(roster.DismissEsc)
	case key.Matches(msg, m.keys.NextField):
		return m, m.editForm.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.editForm.move(-1)
	case key.Matches(msg, m.keys.Save):
		return m.submitEdit()
	case key.Matches(msg, m.keys.Submit):
		i, ok := m.editForm.button()
		if !ok {
			return m, m.editForm.move(1)
		}
		if m.editForm.buttons[i] == CloseButton {
			return m.dismiss(roster.DismissClosed)
		}
		return m.submitEdit()
	}

	field, value, changed, cmd := m.editForm.update(msg)
	if changed {
		m.edit.Set(field, value)
	}
	return m, cmd
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	if m.edit.Form().InFlight() {
		return m, nil
	}
	return m, m.editCmd()
}

func (m Model) dismiss(reason roster.DismissReason) (tea.Model, tea.Cmd) {
	if err := m.edit.Dismiss(reason); err != nil {
		return m, nil
	}
	m.modalOpen = false
	return m, nil
}

// handleMouse dismisses the edit modal on a click outside its box.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.modalOpen || m.alert != "" || m.confirm != nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.modalBounds().contains(msg.X, msg.Y) {
		return m, nil
	}
	return m.dismiss(roster.DismissBackdrop)
}
