package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/interaction"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/render"
)

// cursorOverlay sits on top of the plot image, draws the cursor lines and
// the measurement readout, and forwards raw pointer events to the
// interaction controller. The plot image itself never handles input.
type cursorOverlay struct {
	widget.BaseWidget
	state   *viewerState
	enabled bool
	scene   render.Scene
}

func newCursorOverlay(state *viewerState) *cursorOverlay {
	o := &cursorOverlay{state: state, enabled: state.cursorsEnabled}
	o.ExtendBaseWidget(o)
	return o
}

// SetScene installs the latest rendered scene. Must be called on the UI
// thread before Refresh.
func (o *cursorOverlay) SetScene(sc render.Scene) { o.scene = sc }

func (o *cursorOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background to ensure a full hit-area for events
	bg := canvas.NewRectangle(color.RGBA{})
	lineA := canvas.NewLine(color.RGBA{R: 235, G: 80, B: 80, A: 230})
	lineA.StrokeWidth = 1.5
	lineB := canvas.NewLine(color.RGBA{R: 80, G: 200, B: 235, A: 230})
	lineB.StrokeWidth = 1.5
	labelA := canvas.NewText("", color.White)
	labelA.TextSize = 11
	labelB := canvas.NewText("", color.White)
	labelB.TextSize = 11
	readout := widget.NewRichText()
	readout.Wrapping = fyne.TextWrapOff
	readoutBG := canvas.NewRectangle(color.RGBA{A: 170})
	objs := []fyne.CanvasObject{bg, lineA, lineB, labelA, labelB, readoutBG, readout}
	return &overlayRenderer{
		o: o, bg: bg,
		lines:     [2]*canvas.Line{lineA, lineB},
		labels:    [2]*canvas.Text{labelA, labelB},
		readout:   readout,
		readoutBG: readoutBG,
		objs:      objs,
	}
}

type overlayRenderer struct {
	o         *cursorOverlay
	bg        *canvas.Rectangle
	lines     [2]*canvas.Line
	labels    [2]*canvas.Text
	readout   *widget.RichText
	readoutBG *canvas.Rectangle
	objs      []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy() {}

func offscreen(l *canvas.Line, t *canvas.Text) {
	l.Position1 = fyne.NewPos(-10, -10)
	l.Position2 = fyne.NewPos(-10, -10)
	t.Move(fyne.NewPos(-1000, -1000))
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	for i := range r.lines {
		offscreen(r.lines[i], r.labels[i])
	}
	r.readout.Move(fyne.NewPos(-1000, -1000))
	r.readoutBG.Resize(fyne.NewSize(0, 0))
	r.readoutBG.Move(fyne.NewPos(-1000, -1000))
	if !r.o.enabled {
		return
	}
	drawX, drawY, _, drawH, scale := r.o.containRect(size)
	for i, cl := range r.o.scene.Cursors {
		if i >= len(r.lines) {
			break
		}
		x := drawX + cl.X*scale
		line := r.lines[i]
		line.StrokeColor = cl.Color
		line.Position1 = fyne.NewPos(x, drawY)
		line.Position2 = fyne.NewPos(x, drawY+drawH)
		lbl := r.labels[i]
		lbl.Text = cl.Label
		lbl.Color = cl.Color
		lbl.Move(fyne.NewPos(x+4, drawY+2))
	}
	if len(r.o.scene.Readout) > 0 {
		segs := make([]widget.RichTextSegment, 0, len(r.o.scene.Readout))
		for _, line := range r.o.scene.Readout {
			segs = append(segs, &widget.TextSegment{Text: line})
		}
		r.readout.Segments = segs
		r.readout.Refresh()
		pad := float32(6)
		ts := r.readout.MinSize()
		tx := size.Width - ts.Width - 2*pad - 8
		ty := drawY + 8
		r.readoutBG.Resize(fyne.NewSize(ts.Width+2*pad, ts.Height+2*pad))
		r.readoutBG.Move(fyne.NewPos(tx, ty))
		r.readout.Move(fyne.NewPos(tx+pad, ty+pad))
	}
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *overlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.bg.Refresh()
	for i := range r.lines {
		r.lines[i].Refresh()
		r.labels[i].Refresh()
	}
	r.readoutBG.Refresh()
	r.readout.Refresh()
}

// containRect computes where the contain-fit plot image actually lands
// inside the overlay, so pointer and cursor positions map between overlay
// and image pixel space without drift.
func (o *cursorOverlay) containRect(size fyne.Size) (drawX, drawY, drawW, drawH, scale float32) {
	var imgW, imgH float32
	if o.state != nil && o.state.plotCanvas != nil && o.state.plotCanvas.Image != nil {
		b := o.state.plotCanvas.Image.Bounds()
		imgW = float32(b.Dx())
		imgH = float32(b.Dy())
	}
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, size.Width, size.Height, 1
	}
	sx := size.Width / imgW
	sy := size.Height / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (size.Width - drawW) / 2
	drawY = (size.Height - drawH) / 2
	return drawX, drawY, drawW, drawH, scale
}

// toImagePx converts an overlay position to rendered-image pixels.
func (o *cursorOverlay) toImagePx(pos fyne.Position) (interaction.PointerEvent, bool) {
	drawX, drawY, drawW, drawH, scale := o.containRect(o.Size())
	if scale <= 0 {
		return interaction.PointerEvent{}, false
	}
	if pos.X < drawX || pos.X > drawX+drawW || pos.Y < drawY || pos.Y > drawY+drawH {
		return interaction.PointerEvent{}, false
	}
	return interaction.PointerEvent{
		X: (pos.X - drawX) / scale,
		Y: (pos.Y - drawY) / scale,
	}, true
}

// MouseDown grabs a cursor line for dragging.
func (o *cursorOverlay) MouseDown(ev *desktop.MouseEvent) {
	if !o.enabled || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if p, ok := o.toImagePx(ev.Position); ok {
		o.state.ctrl.PointerDown(p)
	}
}

// MouseUp ends an active drag.
func (o *cursorOverlay) MouseUp(ev *desktop.MouseEvent) {
	if p, ok := o.toImagePx(ev.Position); ok {
		o.state.ctrl.PointerUp(p)
	} else {
		// released outside the plot: still end the drag at the last position
		o.state.ctrl.PointerUp(interaction.PointerEvent{})
	}
}

// MouseMoved forwards every move event; drags want all of them and
// UpdateDrag is idempotent, so nothing is debounced.
func (o *cursorOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if !o.enabled {
		return
	}
	if p, ok := o.toImagePx(ev.Position); ok {
		o.state.ctrl.PointerMove(p)
	}
}

func (o *cursorOverlay) MouseIn(ev *desktop.MouseEvent) {}
func (o *cursorOverlay) MouseOut()                      {}

// Tapped is required alongside DoubleTapped so taps are delivered.
func (o *cursorOverlay) Tapped(ev *fyne.PointEvent) {}

// DoubleTapped places the next cursor at the pointer.
func (o *cursorOverlay) DoubleTapped(ev *fyne.PointEvent) {
	if !o.enabled {
		return
	}
	if p, ok := o.toImagePx(ev.Position); ok {
		o.state.ctrl.AddCursor(p)
	}
}

var (
	_ desktop.Mouseable   = (*cursorOverlay)(nil)
	_ desktop.Hoverable   = (*cursorOverlay)(nil)
	_ fyne.Tappable       = (*cursorOverlay)(nil)
	_ fyne.DoubleTappable = (*cursorOverlay)(nil)
)
