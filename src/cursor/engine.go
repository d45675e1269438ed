// Package cursor implements the two-cursor measurement engine: placement,
// dragging, hit testing and the derived Δt/frequency/ΔV readings.
package cursor

import (
	"errors"
	"math"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/scopelog"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

// ID identifies one of the exactly two cursors.
type ID int

const (
	A ID = iota
	B
)

func (id ID) String() string {
	if id == A {
		return "A"
	}
	return "B"
}

// State is the per-cursor lifecycle: Hidden → Placed → Dragging → Placed.
type State int

const (
	Hidden State = iota
	Placed
	Dragging
)

func (s State) String() string {
	switch s {
	case Placed:
		return "placed"
	case Dragging:
		return "dragging"
	default:
		return "hidden"
	}
}

// ErrInvalidTransition reports a cursor operation requested in the wrong
// state. Callers treat it as a no-op; it is never fatal.
var ErrInvalidTransition = errors.New("invalid cursor transition")

// PixelConverter maps a time coordinate to its rendered horizontal pixel.
// The render viewport satisfies this.
type PixelConverter interface {
	TimeToPx(t float64) float32
}

type cursorState struct {
	state State
	time  float64
}

// Engine owns both cursors and the time range they clamp to. It is mutated
// only from the UI event thread; Measure is a pure read.
type Engine struct {
	cursors    [2]cursorState
	lastMoved  ID
	tMin, tMax float64
	hasRange   bool
	dirty      bool
}

// NewEngine returns an engine with both cursors hidden and no time range.
func NewEngine() *Engine { return &Engine{lastMoved: B} }

// SetTimeRange installs the loaded time base bounds. Existing cursor
// positions are clamped into the new range so the position invariant holds
// across reloads.
func (e *Engine) SetTimeRange(min, max float64) {
	if max < min {
		min, max = max, min
	}
	e.tMin, e.tMax, e.hasRange = min, max, true
	for i := range e.cursors {
		e.cursors[i].time = waveform.Clamp(e.cursors[i].time, min, max)
	}
	e.dirty = true
}

// State returns the current state of one cursor.
func (e *Engine) State(id ID) State { return e.cursors[id].state }

// Position returns a cursor's time coordinate; ok is false while Hidden.
func (e *Engine) Position(id ID) (float64, bool) {
	c := e.cursors[id]
	return c.time, c.state != Hidden
}

// Activate transitions a Hidden cursor to Placed at the center of the
// current time range. Already-visible cursors are left alone.
func (e *Engine) Activate(id ID) {
	if e.cursors[id].state != Hidden {
		return
	}
	pos := 0.0
	if e.hasRange {
		pos = e.tMin + (e.tMax-e.tMin)/2
	}
	e.cursors[id].state = Placed
	e.cursors[id].time = pos
	e.lastMoved = id
	e.dirty = true
}

// Place handles the "add cursor" action at time t: the first Hidden cursor
// (A before B) appears there; once both are visible the last-moved cursor is
// moved instead. A third cursor is never created.
func (e *Engine) Place(t float64) ID {
	t = e.clamp(t)
	for _, id := range []ID{A, B} {
		if e.cursors[id].state == Hidden {
			e.cursors[id].state = Placed
			e.cursors[id].time = t
			e.lastMoved = id
			e.dirty = true
			return id
		}
	}
	id := e.lastMoved
	e.cursors[id].time = t
	e.dirty = true
	return id
}

// BeginDrag transitions Placed→Dragging. Dragging a Hidden cursor is an
// invalid transition and leaves the state unchanged.
func (e *Engine) BeginDrag(id ID) error {
	if e.cursors[id].state != Placed {
		scopelog.Debugf("cursor %s: beginDrag in state %s ignored", id, e.cursors[id].state)
		return ErrInvalidTransition
	}
	e.cursors[id].state = Dragging
	e.dirty = true
	return nil
}

// UpdateDrag sets the dragged cursor's position to clamp(t) absolutely, so
// repeated calls with the same t are idempotent and accumulate no drift. It
// is safe to call at pointer-move frequency.
func (e *Engine) UpdateDrag(id ID, t float64) error {
	if e.cursors[id].state != Dragging {
		scopelog.Debugf("cursor %s: updateDrag in state %s ignored", id, e.cursors[id].state)
		return ErrInvalidTransition
	}
	e.cursors[id].time = e.clamp(t)
	e.lastMoved = id
	e.dirty = true
	return nil
}

// EndDrag transitions Dragging→Placed, keeping the last updated position.
func (e *Engine) EndDrag(id ID) error {
	if e.cursors[id].state != Dragging {
		scopelog.Debugf("cursor %s: endDrag in state %s ignored", id, e.cursors[id].state)
		return ErrInvalidTransition
	}
	e.cursors[id].state = Placed
	e.dirty = true
	return nil
}

// Hide removes a cursor from the plot, from any state including mid-drag.
func (e *Engine) Hide(id ID) {
	if e.cursors[id].state == Hidden {
		return
	}
	e.cursors[id].state = Hidden
	e.dirty = true
}

// HideAll hides both cursors.
func (e *Engine) HideAll() {
	e.Hide(A)
	e.Hide(B)
}

// HitTest returns the visible cursor whose rendered pixel position is within
// tolPx of the pointer time coordinate. When both qualify the closer one
// wins; an exact tie goes to cursor A.
func (e *Engine) HitTest(pointerTime float64, tolPx float32, conv PixelConverter) (ID, bool) {
	px := conv.TimeToPx(pointerTime)
	best := A
	bestD := float32(math.MaxFloat32)
	found := false
	for _, id := range []ID{A, B} {
		if e.cursors[id].state == Hidden {
			continue
		}
		d := px - conv.TimeToPx(e.cursors[id].time)
		if d < 0 {
			d = -d
		}
		if d <= tolPx && d < bestD {
			bestD = d
			best = id
			found = true
		}
	}
	return best, found
}

// Dirty reports whether engine state changed since the last ClearDirty.
// The renderer uses it to coalesce redraws.
func (e *Engine) Dirty() bool { return e.dirty }

// ClearDirty acknowledges a redraw.
func (e *Engine) ClearDirty() { e.dirty = false }

func (e *Engine) clamp(t float64) float64 {
	if !e.hasRange {
		return t
	}
	return waveform.Clamp(t, e.tMin, e.tMax)
}
