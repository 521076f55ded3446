package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// Widget events. The roster controllers run inside tea.Cmd goroutines, so
// they never touch the model directly: the bridge turns each widget call
// into one of these messages and the event loop applies it.
type (
	teardownMsg struct{}

	renderMsg struct {
		students []types.Student
	}

	modalOpenMsg  struct{}
	modalCloseMsg struct{}

	alertMsg struct {
		text string
	}

	flashMsg struct {
		text string
		ttl  time.Duration
	}

	confirmMsg struct {
		prompt string
		reply  chan<- bool
	}
)

// bridgeEvent marks messages that arrive through the bridge channel. Each
// one re-arms waitForEvent.
type bridgeEvent interface {
	bridgeEvent()
}

func (teardownMsg) bridgeEvent()   {}
func (renderMsg) bridgeEvent()     {}
func (modalOpenMsg) bridgeEvent()  {}
func (modalCloseMsg) bridgeEvent() {}
func (alertMsg) bridgeEvent()      {}
func (flashMsg) bridgeEvent()      {}
func (confirmMsg) bridgeEvent()    {}

// bridge implements roster.Table, roster.Modal, roster.Notifier and
// roster.Confirmer on top of a message channel.
type bridge struct {
	events chan tea.Msg
	done   chan struct{}
}

const eventBuffer = 64

func newBridge() *bridge {
	return &bridge{
		events: make(chan tea.Msg, eventBuffer),
		done:   make(chan struct{}),
	}
}

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

// close unblocks pending senders and confirmations once the program exits.
func (b *bridge) close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func (b *bridge) Teardown() { b.send(teardownMsg{}) }

func (b *bridge) Render(students []types.Student) {
	b.send(renderMsg{students: students})
}

func (b *bridge) Open()  { b.send(modalOpenMsg{}) }
func (b *bridge) Close() { b.send(modalCloseMsg{}) }

func (b *bridge) Alert(msg string) { b.send(alertMsg{text: msg}) }

func (b *bridge) Flash(msg string, ttl time.Duration) {
	b.send(flashMsg{text: msg, ttl: ttl})
}

// Confirm posts the prompt and blocks until the user answers. A cancelled
// ctx or a closed bridge counts as no.
func (b *bridge) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)

	select {
	case b.events <- confirmMsg{prompt: prompt, reply: reply}:
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	}

	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	}
}

// waitForEvent returns a command that blocks until the bridge posts the
// next widget event.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
