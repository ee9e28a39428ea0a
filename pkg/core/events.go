package core

import "fmt"

// EventType represents the type of change in the working tree.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventRename EventType = "RENAME"
)

// EventAction records what the listener did in response to an event.
type EventAction string

const (
	ActionNone      EventAction = ""
	ActionScheduled EventAction = "scheduled"
	ActionDeclined  EventAction = "declined"
	ActionFailed    EventAction = "failed"
)

// Event represents a change observed by the project listener.
// Path is relative to the project root, slash-separated.
type Event struct {
	Type      EventType
	Path      string
	Action    EventAction
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.Action != ActionNone {
		return fmt.Sprintf("%s %s (%s)", e.Type, e.Path, e.Action)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
