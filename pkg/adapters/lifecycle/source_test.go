package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gitvcs/pkg/core"
)

func TestSource_ForwardsIndexOutcomes(t *testing.T) {
	in := make(chan core.Event, 4)
	in <- core.Event{Type: core.EventCreate, Path: "a.txt", Action: core.ActionScheduled, Timestamp: 100}
	in <- core.Event{Type: core.EventModify, Path: "b.txt", Timestamp: 101}
	in <- core.Event{Type: core.EventCreate, Path: "c.txt", Timestamp: 102}
	in <- core.Event{Type: core.EventDelete, Path: "d.txt", Action: core.ActionDeclined, Timestamp: 103}
	close(in)

	src := NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	var got []IndexEvent
	for e := range src.Events() {
		ie, ok := e.(IndexEvent)
		require.True(t, ok, "unexpected event type %T", e)
		got = append(got, ie)
	}

	require.Len(t, got, 2)
	assert.Equal(t, IndexEvent{Op: OpAdd, Path: "a.txt", Outcome: core.ActionScheduled, At: time.Unix(100, 0)}, got[0])
	assert.True(t, got[0].Scheduled())
	assert.Equal(t, "add a.txt: scheduled", got[0].String())
	assert.Equal(t, "remove d.txt: declined", got[1].String())
	assert.False(t, got[1].Scheduled())
}

func TestToIndexEvent(t *testing.T) {
	tests := []struct {
		name  string
		event core.Event
		want  Op
		ok    bool
	}{
		{"created and scheduled", core.Event{Type: core.EventCreate, Action: core.ActionScheduled}, OpAdd, true},
		{"deleted and failed", core.Event{Type: core.EventDelete, Action: core.ActionFailed}, OpRemove, true},
		{"created without action", core.Event{Type: core.EventCreate}, "", false},
		{"modified", core.Event{Type: core.EventModify}, "", false},
		{"rename with action", core.Event{Type: core.EventRename, Action: core.ActionScheduled}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toIndexEvent(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Op)
		})
	}
}

func TestSource_StopsOnContext(t *testing.T) {
	in := make(chan core.Event)
	ctx, cancel := context.WithCancel(context.Background())

	src := NewSource(in)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("source did not stop")
	}
}
