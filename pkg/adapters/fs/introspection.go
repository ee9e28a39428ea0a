package fs

import (
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/gitvcs/pkg/core"
)

// ListenerState exposes internal state for observability.
type ListenerState struct {
	Root         string     `json:"root"`
	Watched      int        `json:"watched_dirs"`
	Scheduled    int        `json:"scheduled"`
	Declined     int        `json:"declined"`
	GitLocked    bool       `json:"git_locked"`
	Ignore       []string   `json:"ignore,omitempty"`
	LastFlush    *time.Time `json:"last_flush,omitempty"`
	AddPolicy    string     `json:"add_confirmation"`
	DeletePolicy string     `json:"delete_confirmation"`
}

// State implements introspection.Introspectable.
func (l *Listener) State() any {
	add, del := l.policies()

	l.mu.RLock()
	defer l.mu.RUnlock()

	return ListenerState{
		Root:         l.config.Root,
		Watched:      l.watched,
		Scheduled:    l.scheduled,
		Declined:     l.declined,
		GitLocked:    l.gitLocked,
		Ignore:       l.config.Ignore,
		LastFlush:    l.lastFlush,
		AddPolicy:    string(add.Value),
		DeletePolicy: string(del.Value),
	}
}

// ComponentType implements introspection.Component.
func (l *Listener) ComponentType() string {
	return "fs-listener"
}

var _ introspection.Introspectable = (*Listener)(nil)
var _ introspection.Component = (*Listener)(nil)
var _ core.Listener = (*Listener)(nil)
