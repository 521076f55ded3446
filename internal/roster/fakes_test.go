package roster

import (
	"context"
	"sync"
	"time"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// fakeAPI records calls and answers from configurable results.
type fakeAPI struct {
	mu sync.Mutex

	students []types.Student
	listErr  error
	createFn func(types.StudentDraft) (types.Student, error)
	updateFn func(int64, types.StudentDraft) (types.Student, error)
	deleteFn func(int64) error

	listCalls   int
	createCalls []types.StudentDraft
	updateCalls []int64
	deleteCalls []int64
	calls       []string
}

func (f *fakeAPI) List(ctx context.Context) ([]types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.Student, len(f.students))
	copy(out, f.students)
	return out, nil
}

func (f *fakeAPI) Create(ctx context.Context, d types.StudentDraft) (types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, d)
	f.calls = append(f.calls, "create")
	if f.createFn != nil {
		return f.createFn(d)
	}
	return types.Student{ID: int64(len(f.createCalls)), Name: d.Name, Email: d.Email, Branch: d.Branch}, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int64, d types.StudentDraft) (types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, id)
	f.calls = append(f.calls, "update")
	if f.updateFn != nil {
		return f.updateFn(id, d)
	}
	return types.Student{ID: id, Name: d.Name, Email: d.Email, Branch: d.Branch}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	f.calls = append(f.calls, "delete")
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return nil
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeTable struct {
	mu        sync.Mutex
	events    []string
	renders   [][]types.Student
	teardowns int
}

func (t *fakeTable) Teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardowns++
	t.events = append(t.events, "teardown")
}

func (t *fakeTable) Render(students []types.Student) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renders = append(t.renders, students)
	t.events = append(t.events, "render")
}

type fakeModal struct {
	mu     sync.Mutex
	opens  int
	closes int
}

func (m *fakeModal) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens++
}

func (m *fakeModal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
}

type flash struct {
	msg string
	ttl time.Duration
}

type fakeNotifier struct {
	mu      sync.Mutex
	alerts  []string
	flashes []flash
}

func (n *fakeNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, msg)
}

func (n *fakeNotifier) Flash(msg string, ttl time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.flashes = append(n.flashes, flash{msg, ttl})
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(ctx context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}
