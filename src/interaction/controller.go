// Package interaction translates raw pointer and control events into cursor
// engine commands and waveform store mutations. It is the single logical
// owner of all mutation; the renderer only reads.
package interaction

import (
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/cursor"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/render"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/scopelog"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

// PointerEvent is a pointer position in rendered-image pixel coordinates.
// Front ends convert their native events (including contain-fit scaling)
// before calling the controller.
type PointerEvent struct {
	X, Y float32
}

// Controller wires store, engine and renderer together. Every input event is
// forwarded unconditionally; UpdateDrag is absolute and idempotent so no
// debouncing is needed.
type Controller struct {
	store    *waveform.Store
	engine   *cursor.Engine
	renderer *render.Renderer

	tolerancePx float32
	dragging    cursor.ID
	inDrag      bool

	onChange func() // redraw hook, invoked after any state mutation
}

// New builds a controller. tolerancePx is the hit-test distance for grabbing
// a cursor line; onChange may be nil.
func New(store *waveform.Store, engine *cursor.Engine, renderer *render.Renderer, tolerancePx float32, onChange func()) *Controller {
	if tolerancePx <= 0 {
		tolerancePx = 8
	}
	return &Controller{
		store:       store,
		engine:      engine,
		renderer:    renderer,
		tolerancePx: tolerancePx,
		onChange:    onChange,
	}
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Dragging reports the cursor currently being dragged, if any.
func (c *Controller) Dragging() (cursor.ID, bool) { return c.dragging, c.inDrag }

// PointerDown grabs the cursor line under the pointer, if one is within
// tolerance, and begins a drag. Presses elsewhere do nothing.
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.store.Empty() {
		return
	}
	vp := c.renderer.Viewport()
	t := vp.PxToTime(ev.X)
	id, ok := c.engine.HitTest(t, c.tolerancePx, vp)
	if !ok {
		return
	}
	if err := c.engine.BeginDrag(id); err != nil {
		return // wrong state, ignore per the error taxonomy
	}
	c.dragging = id
	c.inDrag = true
	c.notify()
}

// PointerMove updates an active drag with the pointer's absolute time
// position. Called for every move event; out-of-range positions clamp.
func (c *Controller) PointerMove(ev PointerEvent) {
	if !c.inDrag {
		return
	}
	t := c.renderer.Viewport().PxToTime(ev.X)
	if err := c.engine.UpdateDrag(c.dragging, t); err != nil {
		// Drag state evaporated (e.g. reload hid the cursor); drop the drag.
		c.inDrag = false
		return
	}
	c.notify()
}

// PointerUp finishes an active drag, leaving the cursor Placed at its last
// position.
func (c *Controller) PointerUp(ev PointerEvent) {
	if !c.inDrag {
		return
	}
	c.inDrag = false
	if err := c.engine.EndDrag(c.dragging); err != nil {
		return
	}
	c.notify()
}

// AddCursor is the dedicated "place a cursor here" action (double-tap in the
// viewer): the first hidden cursor appears at the pointer, afterwards the
// last-moved cursor is moved. Never creates a third cursor.
func (c *Controller) AddCursor(ev PointerEvent) {
	if c.store.Empty() {
		return
	}
	t := c.renderer.Viewport().PxToTime(ev.X)
	id := c.engine.Place(t)
	scopelog.Debugf("placed cursor %s at %g", id, t)
	c.notify()
}

// ActivateCursor shows a hidden cursor at the default position.
func (c *Controller) ActivateCursor(id cursor.ID) {
	c.engine.Activate(id)
	c.notify()
}

// HideCursors hides both cursors (leaving measurement mode).
func (c *Controller) HideCursors() {
	if c.inDrag {
		c.inDrag = false
	}
	c.engine.HideAll()
	c.notify()
}

// ToggleChannel flips one channel's visibility, refits the viewport to the
// remaining visible data, and triggers a redraw.
func (c *Controller) ToggleChannel(id string, visible bool) {
	if !c.store.SetVisible(id, visible) {
		scopelog.Debugf("toggle for unknown channel %q ignored", id)
		return
	}
	c.renderer.Refit(c.store)
	c.notify()
}
