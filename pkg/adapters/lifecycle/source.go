// Package lifecycle bridges listener events into aretw0/lifecycle supervisors.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Op is the index operation a listener outcome refers to.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// IndexEvent is a lifecycle event for one path the listener acted on.
type IndexEvent struct {
	Op      Op
	Path    string
	Outcome core.EventAction
	At      time.Time
}

func (e IndexEvent) String() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Outcome)
}

// Scheduled reports whether the path was queued for the index.
func (e IndexEvent) Scheduled() bool {
	return e.Outcome == core.ActionScheduled
}

// toIndexEvent maps a listener event. Events the listener did not act on are dropped.
func toIndexEvent(e core.Event) (IndexEvent, bool) {
	if e.Action == core.ActionNone {
		return IndexEvent{}, false
	}
	var op Op
	switch e.Type {
	case core.EventCreate:
		op = OpAdd
	case core.EventDelete:
		op = OpRemove
	default:
		return IndexEvent{}, false
	}
	return IndexEvent{Op: op, Path: e.Path, Outcome: e.Action, At: time.Unix(e.Timestamp, 0)}, true
}

type indexSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting an IndexEvent for every
// addition or removal the listener scheduled, declined or failed.
// The output channel is closed when the input closes or the start context ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &indexSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *indexSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *indexSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				ie, ok := toIndexEvent(e)
				if !ok {
					continue
				}
				select {
				case s.out <- ie:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
