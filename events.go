// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import "fmt"

// EventKind is the kind of a host event delivered to the frame loop.
type EventKind uint8

// Event kinds.
const (
	EventRedraw EventKind = iota + 1
	EventResize
	EventClose
	EventKey
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventRedraw:
		return "redraw"
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	case EventKey:
		return "key"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Key identifies a keyboard key. Only keys the loop reacts to are named.
type Key uint16

// Keys.
const (
	KeyUnknown Key = iota
	KeyEscape
)

// Event is a host event: a redraw request, a resize notification, a close
// request or a key press.
type Event struct {
	Kind   EventKind
	Width  uint32
	Height uint32
	Key    Key
}

// RedrawEvent requests a frame.
func RedrawEvent() Event { return Event{Kind: EventRedraw} }

// ResizeEvent reports a new surface size in pixels.
func ResizeEvent(width, height uint32) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// CloseEvent reports a window close request.
func CloseEvent() Event { return Event{Kind: EventClose} }

// KeyEvent reports a key press.
func KeyEvent(k Key) Event { return Event{Kind: EventKey, Key: k} }

// LoopState is the run state of a FrameLoop.
type LoopState uint8

// Loop states.
const (
	// StateRunning accepts redraw and resize events.
	StateRunning LoopState = iota

	// StateStopped is entered on close or escape.
	StateStopped

	// StateFailed is entered when a frame cannot be acquired or submitted.
	StateFailed
)

// String returns the state name.
func (s LoopState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoopState(%d)", uint8(s))
	}
}

// Action tells the host what to do after an event was handled.
type Action uint8

// Actions.
const (
	ActionContinue Action = iota
	ActionExit
)

type transitionKey struct {
	kind  EventKind
	state LoopState
}

type transition func(l *FrameLoop, ev Event) Action

// transitions is the {event kind, state} -> action table. Pairs missing
// from the table leave the loop unchanged.
var transitions = map[transitionKey]transition{
	{EventRedraw, StateRunning}: (*FrameLoop).redraw,
	{EventResize, StateRunning}: (*FrameLoop).resize,
	{EventClose, StateRunning}:  (*FrameLoop).stop,
	{EventKey, StateRunning}:    (*FrameLoop).key,
}
