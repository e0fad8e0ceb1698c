// Package task ties async work to the lifetime of the view that started it.
package task

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Scope is owned by one mounted view. Cancelling it aborts in-flight requests
// and marks any result that still arrives as stale.
type Scope struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScope starts a scope derived from parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{id: uuid.New(), ctx: ctx, cancel: cancel}
}

func (s *Scope) ID() uuid.UUID { return s.id }

func (s *Scope) Context() context.Context { return s.ctx }

// Cancel tears the scope down. Safe to call more than once.
func (s *Scope) Cancel() { s.cancel() }

// Done reports whether the scope was cancelled.
func (s *Scope) Done() bool { return s.ctx.Err() != nil }

// Result wraps a message produced inside a scope.
type Result struct {
	Scope uuid.UUID
	Msg   tea.Msg
}

// Run returns a command that calls fn with the scope's context and tags the
// message it produces.
func (s *Scope) Run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	id, ctx := s.id, s.ctx
	return func() tea.Msg {
		return Result{Scope: id, Msg: fn(ctx)}
	}
}

// Accept unwraps r if it belongs to this scope and the scope is still live.
func (s *Scope) Accept(r Result) (tea.Msg, bool) {
	if s == nil || r.Scope != s.id || s.Done() {
		return nil, false
	}
	return r.Msg, true
}
