// Package render turns the current waveform and cursor state into a drawable
// scene: a chart image of the visible traces plus cursor line positions and
// readout text for the overlay.
package render

import (
	"math"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

// Horizontal gutters of the rendered chart image, in image pixels. The time
// axis spans the area between them; cursor/pointer mapping uses the same
// numbers so overlay lines land on the plotted traces.
const (
	plotLeftGutterPx  = 56 // chart left padding + y-axis labels
	plotRightGutterPx = 14
)

// Viewport holds the current axis bounds and the pixel size of the rendered
// plot. It is recomputed by the renderer when channel visibility changes and
// read by the interaction layer for pixel↔time conversion.
type Viewport struct {
	TMin, TMax float64
	VMin, VMax float64
	Width      int // rendered image width in pixels
	Height     int
}

// SetSize updates the rendered pixel size.
func (v *Viewport) SetSize(w, h int) {
	if w > 0 {
		v.Width = w
	}
	if h > 0 {
		v.Height = h
	}
}

// Fit auto-scales the viewport to the loaded time base and the currently
// visible channels. Hidden channels do not influence the voltage range. With
// no visible data a symmetric unit range is used so the plot stays sane.
func (v *Viewport) Fit(store *waveform.Store) {
	if store == nil || store.Empty() {
		v.TMin, v.TMax = 0, 1
		v.VMin, v.VMax = -1, 1
		return
	}
	v.TMin, v.TMax, _ = store.TimeBounds()
	if v.TMax <= v.TMin {
		v.TMax = v.TMin + 1
	}
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, ch := range store.Channels() {
		if !ch.Visible {
			continue
		}
		for _, val := range ch.Values {
			if val < lo {
				lo = val
			}
			if val > hi {
				hi = val
			}
		}
	}
	if lo == math.MaxFloat64 {
		v.VMin, v.VMax = -1, 1
		return
	}
	v.VMin, v.VMax = niceAxisBounds(lo, hi)
}

func (v *Viewport) plotSpanPx() float32 {
	span := float32(v.Width) - plotLeftGutterPx - plotRightGutterPx
	if span < 1 {
		span = float32(v.Width)
	}
	return span
}

// TimeToPx maps a time coordinate to the horizontal pixel of the rendered
// image. Satisfies cursor.PixelConverter.
func (v *Viewport) TimeToPx(t float64) float32 {
	if v.TMax <= v.TMin {
		return plotLeftGutterPx
	}
	f := (t - v.TMin) / (v.TMax - v.TMin)
	return plotLeftGutterPx + float32(f)*v.plotSpanPx()
}

// PxToTime maps a horizontal image pixel back to a time coordinate, clamped
// into the current time range.
func (v *Viewport) PxToTime(px float32) float64 {
	span := v.plotSpanPx()
	f := float64((px - plotLeftGutterPx) / span)
	t := v.TMin + f*(v.TMax-v.TMin)
	return waveform.Clamp(t, v.TMin, v.TMax)
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice"
// numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}
