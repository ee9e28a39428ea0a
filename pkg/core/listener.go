package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Listener is a long-lived subscription to project events (e.g. a file-system watch).
// Dispose unsubscribes it and releases its resources.
type Listener interface {
	Dispose() error
}

// ListenerFactory constructs a listener bound to a project and registers it with its event source.
type ListenerFactory func(ctx context.Context, project Project) (Listener, error)

// Project is the owning context of a listener: a working tree root and a display name.
type Project struct {
	Name string
	Root string
}

// ListenerState tags whether a guard holds a handle.
type ListenerState int

const (
	ListenerIdle ListenerState = iota
	ListenerActive
)

func (s ListenerState) String() string {
	switch s {
	case ListenerIdle:
		return "idle"
	case ListenerActive:
		return "active"
	default:
		return fmt.Sprintf("ListenerState(%d)", int(s))
	}
}

// HandleState tags the disposal state of a single handle.
type HandleState int

const (
	HandleActive HandleState = iota
	HandleDisposed
)

func (s HandleState) String() string {
	if s == HandleDisposed {
		return "disposed"
	}
	return "active"
}

// ListenerHandle owns one listener created by a ListenerGuard.
type ListenerHandle struct {
	ID       string
	Project  Project
	listener Listener
	state    HandleState
}

// State returns the disposal state of the handle.
func (h *ListenerHandle) State() HandleState {
	return h.state
}

// Listener returns the underlying listener.
func (h *ListenerHandle) Listener() Listener {
	return h.listener
}

// dispose is only reachable through ListenerGuard.Deactivate, which clears the slot first.
func (h *ListenerHandle) dispose() error {
	h.state = HandleDisposed
	return h.listener.Dispose()
}

// ListenerCycles counts lifecycle transitions of a guard.
type ListenerCycles struct {
	Created  int `json:"created"`
	Disposed int `json:"disposed"`
}

// ListenerGuard keeps at most one listener alive per project.
//
// Activate and Deactivate are idempotent. The guard is not safe for concurrent use;
// callers invoking it from several goroutines must serialize access.
type ListenerGuard struct {
	factory ListenerFactory
	state   ListenerState
	handle  *ListenerHandle
	cycles  ListenerCycles
}

// NewListenerGuard creates an idle guard.
func NewListenerGuard(factory ListenerFactory) *ListenerGuard {
	return &ListenerGuard{factory: factory}
}

// Activate creates and stores a listener if none is active. A second call is a no-op.
func (g *ListenerGuard) Activate(ctx context.Context, project Project) error {
	if g.state == ListenerActive {
		return nil
	}
	if g.factory == nil {
		return fmt.Errorf("listener guard has no factory")
	}

	l, err := g.factory(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create listener for %s: %w", project.Root, err)
	}

	g.handle = &ListenerHandle{
		ID:       uuid.NewString(),
		Project:  project,
		listener: l,
		state:    HandleActive,
	}
	g.state = ListenerActive
	g.cycles.Created++
	return nil
}

// Deactivate disposes the active listener and clears the slot. A second call is a no-op.
// The slot is cleared even when disposal fails, so a handle is never disposed twice.
func (g *ListenerGuard) Deactivate() error {
	if g.state != ListenerActive {
		return nil
	}

	h := g.handle
	g.handle = nil
	g.state = ListenerIdle
	g.cycles.Disposed++

	if err := h.dispose(); err != nil {
		return fmt.Errorf("failed to dispose listener %s: %w", h.ID, err)
	}
	return nil
}

// State reports whether a listener is held.
func (g *ListenerGuard) State() ListenerState {
	return g.state
}

// Handle returns the active handle, or nil when idle.
func (g *ListenerGuard) Handle() *ListenerHandle {
	return g.handle
}

// Cycles returns the number of created and disposed handles so far.
func (g *ListenerGuard) Cycles() ListenerCycles {
	return g.cycles
}
