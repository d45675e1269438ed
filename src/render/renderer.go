package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/cursor"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/scopelog"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

// Config is the explicit plot styling passed at construction; there is no
// process-wide mutable theme state.
type Config struct {
	Width, Height int
	Dark          bool
	CursorAColor  color.NRGBA
	CursorBColor  color.NRGBA
	ShowStats     bool // draw per-channel auto measurements under the plot
}

// DefaultConfig matches the original bench setup: dark plot, red/cyan cursors.
func DefaultConfig() Config {
	return Config{
		Width:  1000,
		Height: 480,
		Dark:   true,
		CursorAColor: color.NRGBA{R: 235, G: 80, B: 80, A: 255},
		CursorBColor: color.NRGBA{R: 80, G: 200, B: 235, A: 255},
	}
}

// CursorLine is one vertical cursor marker in image pixel coordinates.
type CursorLine struct {
	ID    cursor.ID
	X     float32
	Color color.NRGBA
	Label string // e.g. "A: 1.250 ms"
}

// Scene is the drawable output for one frame: the trace image plus the
// overlay geometry and readout text derived from the same state snapshot.
type Scene struct {
	Chart   image.Image
	Cursors []CursorLine
	Readout []string
}

// Renderer is a pure function of (store snapshot, engine snapshot, viewport);
// it keeps no interaction state beyond the viewport it recomputes.
type Renderer struct {
	cfg Config
	vp  Viewport
}

// New builds a renderer with the given styling.
func New(cfg Config) *Renderer {
	r := &Renderer{cfg: cfg}
	r.vp.SetSize(cfg.Width, cfg.Height)
	r.vp.Fit(nil)
	return r
}

// Viewport exposes the live viewport for pixel↔time conversion.
func (r *Renderer) Viewport() *Viewport { return &r.vp }

// SetSize updates the rendered image size (window resizes).
func (r *Renderer) SetSize(w, h int) {
	r.cfg.Width, r.cfg.Height = w, h
	r.vp.SetSize(w, h)
}

// SetShowStats toggles the auto-measurement strip under the plot.
func (r *Renderer) SetShowStats(b bool) { r.cfg.ShowStats = b }

// SetDark switches between the dark and light plot palettes.
func (r *Renderer) SetDark(b bool) { r.cfg.Dark = b }

// Refit recomputes the viewport from the store (load or visibility change).
func (r *Renderer) Refit(store *waveform.Store) { r.vp.Fit(store) }

// channelColors maps the waveform palette names onto chart stroke colors.
var channelColors = map[string]drawing.Color{
	"yellow":  {R: 230, G: 220, B: 60, A: 255},
	"cyan":    {R: 80, G: 200, B: 235, A: 255},
	"magenta": {R: 225, G: 80, B: 225, A: 255},
	"lime":    {R: 130, G: 230, B: 90, A: 255},
	"red":     {R: 235, G: 80, B: 80, A: 255},
	"orange":  {R: 240, G: 160, B: 60, A: 255},
	"white":   {R: 235, G: 235, B: 235, A: 255},
	"purple":  {R: 160, G: 110, B: 230, A: 255},
}

func traceStyle(name string) chart.Style {
	col, ok := channelColors[name]
	if !ok {
		col = chart.ColorAlternateGray
	}
	return chart.Style{StrokeColor: col, StrokeWidth: 1.5}
}

// BuildScene renders the visible traces and derives the cursor overlay
// geometry and measurement readout from the same snapshot. Pure read.
func (r *Renderer) BuildScene(store *waveform.Store, eng *cursor.Engine) Scene {
	sc := Scene{Chart: r.renderTraces(store)}
	if eng == nil {
		return sc
	}
	for _, id := range []cursor.ID{cursor.A, cursor.B} {
		if eng.State(id) == cursor.Hidden {
			continue
		}
		t, _ := eng.Position(id)
		col := r.cfg.CursorAColor
		if id == cursor.B {
			col = r.cfg.CursorBColor
		}
		sc.Cursors = append(sc.Cursors, CursorLine{
			ID:    id,
			X:     r.vp.TimeToPx(t),
			Color: col,
			Label: fmt.Sprintf("%s: %s", id, FormatSeconds(t)),
		})
	}
	sc.Readout = ReadoutLines(eng.Measure(store))
	return sc
}

// renderTraces draws the visible channels with go-chart and decodes the PNG
// back into an image for the canvas. Falls back to a blank frame on render
// errors so the UI still updates.
func (r *Renderer) renderTraces(store *waveform.Store) image.Image {
	w, h := r.cfg.Width, r.cfg.Height
	if store == nil || store.Empty() {
		return blank(w, h)
	}
	tb := store.Timebase()
	series := []chart.Series{}
	for _, ch := range store.Channels() {
		if !ch.Visible {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ch.ID,
			XValues: tb,
			YValues: ch.Values,
			Style:   traceStyle(ch.Color),
		})
	}
	if len(series) == 0 {
		return blank(w, h)
	}

	bg, fg := plotColors(r.cfg.Dark)
	ch := chart.Chart{
		Background: chart.Style{
			Padding:   chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28},
			FillColor: bg,
		},
		Canvas: chart.Style{FillColor: bg},
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          chart.Style{FontColor: fg},
			Range:          &chart.ContinuousRange{Min: r.vp.TMin, Max: r.vp.TMax},
			ValueFormatter: func(v interface{}) string { return formatAxisSeconds(v) },
		},
		YAxis: chart.YAxis{
			Name:  "Voltage",
			Style: chart.Style{FontColor: fg},
			Range: &chart.ContinuousRange{Min: r.vp.VMin, Max: r.vp.VMax},
			Ticks: niceTicks(r.vp.VMin, r.vp.VMax, 6),
		},
		Series: series,
	}
	ch.Width = w
	ch.Height = h
	ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{FillColor: bg, FontColor: fg})}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		scopelog.Warnf("trace render error: %v; showing blank fallback", err)
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		scopelog.Warnf("trace decode error: %v; showing blank fallback", err)
		return blank(w, h)
	}
	if r.cfg.ShowStats {
		img = drawStatsStrip(img, store)
	}
	return img
}

func plotColors(dark bool) (bg, fg drawing.Color) {
	if dark {
		return drawing.Color{R: 43, G: 43, B: 43, A: 255}, drawing.Color{R: 230, G: 230, B: 230, A: 255}
	}
	return drawing.ColorWhite, drawing.Color{R: 40, G: 40, B: 40, A: 255}
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

// drawStatsStrip writes one compact auto-measurement line per visible
// channel near the bottom-left of the rendered image.
func drawStatsStrip(img image.Image, store *waveform.Store) image.Image {
	var lines []string
	tb := store.Timebase()
	for _, ch := range store.Channels() {
		if !ch.Visible {
			continue
		}
		st := waveform.Stats(tb, ch.Values)
		line := fmt.Sprintf("%s: Vpp %s  f %s", ch.ID, FormatVolts(st.VPP), FormatHertz(st.Freq))
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	bgCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 190})
	lineH := face.Metrics().Height.Ceil() + 2
	x := b.Min.X + 8
	y := b.Max.Y - 6 - lineH*(len(lines)-1)
	for _, line := range lines {
		dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
		tw := dr.MeasureString(line).Ceil()
		rect := image.Rect(x-4, y-face.Metrics().Ascent.Ceil()-2, x+tw+4, y+4)
		draw.Draw(rgba, rect, bgCol, image.Point{}, draw.Over)
		dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
		dr.DrawString(line)
		y += lineH
	}
	return rgba
}

// ReadoutLines formats the measurement record for display. Partial records
// (one cursor) produce per-cursor values only; Δt/frequency appear once both
// cursors are visible.
func ReadoutLines(m cursor.Measurement) []string {
	var lines []string
	if m.HasA {
		lines = append(lines, "A: "+FormatSeconds(m.TimeA))
	}
	if m.HasB {
		lines = append(lines, "B: "+FormatSeconds(m.TimeB))
	}
	if m.HasDelta {
		dt := "Δt: " + FormatSeconds(m.DeltaT)
		if m.HasFrequency {
			dt += "  f: " + FormatHertz(m.Frequency)
		}
		lines = append(lines, dt)
	}
	for _, d := range m.Deltas {
		switch {
		case m.HasDelta:
			lines = append(lines, fmt.Sprintf("%s: ΔV %s", d.Channel, FormatVolts(d.DeltaV)))
		case m.HasA:
			lines = append(lines, fmt.Sprintf("%s: %s", d.Channel, FormatVolts(d.VA)))
		case m.HasB:
			lines = append(lines, fmt.Sprintf("%s: %s", d.Channel, FormatVolts(d.VB)))
		}
	}
	return lines
}

// niceTicks generates up to n tick marks between [min,max] using the
// 1/2/2.5/5 step pattern.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil((max - min) / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: FormatVolts(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatAxisSeconds(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return FormatSeconds(f)
}

// FormatSeconds renders a time value with an SI prefix (s, ms, µs, ns).
func FormatSeconds(t float64) string {
	av := math.Abs(t)
	switch {
	case av == 0:
		return "0 s"
	case av >= 1:
		return trimZeros(fmt.Sprintf("%.3f", t)) + " s"
	case av >= 1e-3:
		return trimZeros(fmt.Sprintf("%.3f", t*1e3)) + " ms"
	case av >= 1e-6:
		return trimZeros(fmt.Sprintf("%.3f", t*1e6)) + " µs"
	default:
		return trimZeros(fmt.Sprintf("%.3f", t*1e9)) + " ns"
	}
}

// FormatHertz renders a frequency with an SI prefix (Hz, kHz, MHz).
func FormatHertz(f float64) string {
	av := math.Abs(f)
	switch {
	case av == 0:
		return "0 Hz"
	case av >= 1e6:
		return trimZeros(fmt.Sprintf("%.3f", f/1e6)) + " MHz"
	case av >= 1e3:
		return trimZeros(fmt.Sprintf("%.3f", f/1e3)) + " kHz"
	default:
		return trimZeros(fmt.Sprintf("%.3f", f)) + " Hz"
	}
}

// FormatVolts renders a voltage with an SI prefix (V, mV, µV).
func FormatVolts(v float64) string {
	av := math.Abs(v)
	switch {
	case av == 0:
		return "0 V"
	case av >= 1:
		return trimZeros(fmt.Sprintf("%.3f", v)) + " V"
	case av >= 1e-3:
		return trimZeros(fmt.Sprintf("%.3f", v*1e3)) + " mV"
	default:
		return trimZeros(fmt.Sprintf("%.3f", v*1e6)) + " µV"
	}
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
