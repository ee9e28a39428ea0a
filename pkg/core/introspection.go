package core

import (
	"github.com/aretw0/introspection"
)

// VcsState exposes internal state for observability.
type VcsState struct {
	Name               string            `json:"name"`
	Project            string            `json:"project"`
	Root               string            `json:"root"`
	Listener           string            `json:"listener"`
	ListenerID         string            `json:"listener_id,omitempty"`
	Cycles             ListenerCycles    `json:"cycles"`
	AddConfirmation    ConfirmationValue `json:"add_confirmation"`
	DeleteConfirmation ConfirmationValue `json:"delete_confirmation"`
	Capabilities       []string          `json:"capabilities"`
}

// State implements introspection.Introspectable.
func (v *Vcs) State() any {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := VcsState{
		Name:               Name,
		Project:            v.project.Name,
		Root:               v.project.Root,
		Listener:           ListenerIdle.String(),
		AddConfirmation:    v.AddConfirmation().Value,
		DeleteConfirmation: v.DeleteConfirmation().Value,
	}
	if v.listener != nil {
		st.Listener = v.listener.State().String()
		st.Cycles = v.listener.Cycles()
		if h := v.listener.Handle(); h != nil {
			st.ListenerID = h.ID
		}
	}

	caps := []struct {
		name  string
		wired bool
	}{
		{"changes", v.changes != nil},
		{"checkin", v.checkin != nil},
		{"rollback", v.rollback != nil},
		{"update", v.update != nil},
		{"annotate", v.annotation != nil},
		{"diff", v.diff != nil},
		{"history", v.history != nil},
		{"selector", v.selector != nil},
		{"configurable", v.config != nil},
	}
	for _, c := range caps {
		if c.wired {
			st.Capabilities = append(st.Capabilities, c.name)
		}
	}
	return st
}

// ComponentType implements introspection.Component.
func (v *Vcs) ComponentType() string {
	return "vcs"
}

var _ introspection.Introspectable = (*Vcs)(nil)
var _ introspection.Component = (*Vcs)(nil)
