// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import "testing"

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventRedraw, "redraw"},
		{EventResize, "resize"},
		{EventClose, "close"},
		{EventKey, "key"},
		{EventKind(99), "EventKind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLoopStateString(t *testing.T) {
	for state, want := range map[LoopState]string{
		StateRunning: "running",
		StateStopped: "stopped",
		StateFailed:  "failed",
		LoopState(7): "LoopState(7)",
	} {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestEventConstructors(t *testing.T) {
	if ev := ResizeEvent(640, 480); ev.Kind != EventResize || ev.Width != 640 || ev.Height != 480 {
		t.Errorf("ResizeEvent = %+v", ev)
	}
	if ev := KeyEvent(KeyEscape); ev.Kind != EventKey || ev.Key != KeyEscape {
		t.Errorf("KeyEvent = %+v", ev)
	}
	if RedrawEvent().Kind != EventRedraw || CloseEvent().Kind != EventClose {
		t.Error("RedrawEvent/CloseEvent kinds")
	}
}

// TestTransitionTable checks that only a running loop reacts to events.
func TestTransitionTable(t *testing.T) {
	kinds := []EventKind{EventRedraw, EventResize, EventClose, EventKey}
	for _, k := range kinds {
		if _, ok := transitions[transitionKey{k, StateRunning}]; !ok {
			t.Errorf("no transition for %v in running state", k)
		}
		for _, s := range []LoopState{StateStopped, StateFailed} {
			if _, ok := transitions[transitionKey{k, s}]; ok {
				t.Errorf("unexpected transition for %v in %v state", k, s)
			}
		}
	}
}
