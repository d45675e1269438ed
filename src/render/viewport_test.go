package render

import (
	"math"
	"testing"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

func testStore(t *testing.T) *waveform.Store {
	t.Helper()
	s := waveform.NewStore()
	s.Replace(&waveform.Capture{
		Timebase: []float64{0, 1, 2, 3},
		Channels: []waveform.Channel{
			{ID: "CH1", Values: []float64{0, 5, 5, 0}, Visible: true},
			{ID: "CH2", Values: []float64{-20, 20, -20, 20}, Visible: true},
		},
	})
	return s
}

func TestViewport_PixelMappingEndpoints(t *testing.T) {
	vp := Viewport{TMin: 0, TMax: 10, Width: 1000, Height: 480}
	if got := vp.TimeToPx(0); got != plotLeftGutterPx {
		t.Fatalf("TMin pixel got %g want %d", got, plotLeftGutterPx)
	}
	if got := vp.TimeToPx(10); got != 1000-plotRightGutterPx {
		t.Fatalf("TMax pixel got %g want %d", got, 1000-plotRightGutterPx)
	}
}

func TestViewport_RoundTrip(t *testing.T) {
	vp := Viewport{TMin: -2, TMax: 8, Width: 800, Height: 400}
	for _, tm := range []float64{-2, 0, 1.234, 5, 8} {
		px := vp.TimeToPx(tm)
		back := vp.PxToTime(px)
		if math.Abs(back-tm) > 1e-4 {
			t.Fatalf("round trip of %g came back as %g", tm, back)
		}
	}
}

func TestViewport_PxToTimeClamps(t *testing.T) {
	vp := Viewport{TMin: 0, TMax: 10, Width: 1000, Height: 480}
	if got := vp.PxToTime(-500); got != 0 {
		t.Fatalf("far-left pixel got %g want 0", got)
	}
	if got := vp.PxToTime(5000); got != 10 {
		t.Fatalf("far-right pixel got %g want 10", got)
	}
}

func TestViewport_FitUsesVisibleChannelsOnly(t *testing.T) {
	s := testStore(t)
	var vp Viewport
	vp.SetSize(1000, 480)
	vp.Fit(s)
	if vp.TMin != 0 || vp.TMax != 3 {
		t.Fatalf("time bounds got (%g,%g) want (0,3)", vp.TMin, vp.TMax)
	}
	// CH2 dominates the voltage range while visible
	if vp.VMin > -20 || vp.VMax < 20 {
		t.Fatalf("voltage bounds (%g,%g) should cover ±20", vp.VMin, vp.VMax)
	}

	s.SetVisible("CH2", false)
	vp.Fit(s)
	if vp.VMin < -10 {
		t.Fatalf("hidden channel still expands range: VMin=%g", vp.VMin)
	}
	if vp.VMin > 0 || vp.VMax < 5 {
		t.Fatalf("voltage bounds (%g,%g) should cover CH1's 0..5", vp.VMin, vp.VMax)
	}
}

func TestViewport_FitEmptyStore(t *testing.T) {
	var vp Viewport
	vp.SetSize(1000, 480)
	vp.Fit(nil)
	if vp.TMin != 0 || vp.TMax != 1 || vp.VMin != -1 || vp.VMax != 1 {
		t.Fatalf("empty fit got t(%g,%g) v(%g,%g)", vp.TMin, vp.TMax, vp.VMin, vp.VMax)
	}

	// all channels hidden behaves like empty for the voltage axis
	s := testStore(t)
	s.SetVisible("CH1", false)
	s.SetVisible("CH2", false)
	vp.Fit(s)
	if vp.VMin != -1 || vp.VMax != 1 {
		t.Fatalf("all-hidden fit got v(%g,%g) want (-1,1)", vp.VMin, vp.VMax)
	}
}
