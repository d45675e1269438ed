package render

import (
	"strings"
	"testing"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/cursor"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

func TestBuildScene_EmptyStore(t *testing.T) {
	r := New(DefaultConfig())
	sc := r.BuildScene(waveform.NewStore(), cursor.NewEngine())
	if sc.Chart == nil {
		t.Fatalf("empty store must still yield a chart image")
	}
	if len(sc.Cursors) != 0 {
		t.Fatalf("hidden cursors rendered: %d", len(sc.Cursors))
	}
	if len(sc.Readout) != 0 {
		t.Fatalf("unexpected readout: %v", sc.Readout)
	}
}

func TestBuildScene_CursorLines(t *testing.T) {
	s := testStore(t)
	r := New(DefaultConfig())
	r.Refit(s)
	e := cursor.NewEngine()
	e.SetTimeRange(0, 3)
	e.Place(1)

	sc := r.BuildScene(s, e)
	if len(sc.Cursors) != 1 {
		t.Fatalf("cursor line count got %d want 1", len(sc.Cursors))
	}
	a := sc.Cursors[0]
	if a.ID != cursor.A {
		t.Fatalf("line id got %s want A", a.ID)
	}
	if !strings.HasPrefix(a.Label, "A: ") {
		t.Fatalf("label got %q", a.Label)
	}
	wantX := r.Viewport().TimeToPx(1)
	if a.X != wantX {
		t.Fatalf("line x got %g want %g", a.X, wantX)
	}

	e.Place(2)
	sc = r.BuildScene(s, e)
	if len(sc.Cursors) != 2 {
		t.Fatalf("cursor line count got %d want 2", len(sc.Cursors))
	}
	if sc.Chart == nil {
		t.Fatalf("chart missing")
	}
	if sc.Chart.Bounds().Dx() != r.Viewport().Width {
		t.Fatalf("chart width got %d want %d", sc.Chart.Bounds().Dx(), r.Viewport().Width)
	}
}

func TestReadoutLines_FullMeasurement(t *testing.T) {
	m := cursor.Measurement{
		HasA: true, HasB: true, TimeA: 0, TimeB: 0.002,
		HasDelta: true, DeltaT: 0.002,
		HasFrequency: true, Frequency: 500,
		Deltas: []cursor.ChannelDelta{{Channel: "CH1", VA: 0, VB: 5, DeltaV: 5}},
	}
	lines := ReadoutLines(m)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"A: 0 s", "B: 2 ms", "Δt: 2 ms", "f: 500 Hz", "CH1: ΔV 5 V"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("readout missing %q:\n%s", want, joined)
		}
	}
}

func TestReadoutLines_PartialMeasurement(t *testing.T) {
	m := cursor.Measurement{
		HasA: true, TimeA: 0.0005,
		Deltas: []cursor.ChannelDelta{{Channel: "CH1", VA: 2.5}},
	}
	joined := strings.Join(ReadoutLines(m), "\n")
	if !strings.Contains(joined, "A: 500 µs") {
		t.Fatalf("missing cursor A time:\n%s", joined)
	}
	if strings.Contains(joined, "Δt") || strings.Contains(joined, "f:") {
		t.Fatalf("partial readout must not contain Δt or frequency:\n%s", joined)
	}
	if !strings.Contains(joined, "CH1: 2.5 V") {
		t.Fatalf("missing single-cursor voltage:\n%s", joined)
	}
}

func TestReadoutLines_ZeroDeltaHasNoFrequency(t *testing.T) {
	m := cursor.Measurement{
		HasA: true, HasB: true, TimeA: 1, TimeB: 1,
		HasDelta: true, DeltaT: 0,
	}
	joined := strings.Join(ReadoutLines(m), "\n")
	if !strings.Contains(joined, "Δt: 0 s") {
		t.Fatalf("missing zero Δt:\n%s", joined)
	}
	if strings.Contains(joined, "f:") {
		t.Fatalf("frequency shown for zero Δt:\n%s", joined)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 s"},
		{1.5, "1.5 s"},
		{0.002, "2 ms"},
		{0.00125, "1.25 ms"},
		{5e-6, "5 µs"},
		{3e-9, "3 ns"},
		{-0.004, "-4 ms"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.in); got != tc.want {
			t.Fatalf("FormatSeconds(%g) got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatHertz(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 Hz"},
		{500, "500 Hz"},
		{1250, "1.25 kHz"},
		{2e6, "2 MHz"},
	}
	for _, tc := range cases {
		if got := FormatHertz(tc.in); got != tc.want {
			t.Fatalf("FormatHertz(%g) got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatVolts(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 V"},
		{5, "5 V"},
		{-2.5, "-2.5 V"},
		{0.012, "12 mV"},
		{33e-6, "33 µV"},
	}
	for _, tc := range cases {
		if got := FormatVolts(tc.in); got != tc.want {
			t.Fatalf("FormatVolts(%g) got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(-1, 6, 6)
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %d", len(ticks))
	}
	if ticks[0].Value > -1 || ticks[len(ticks)-1].Value < 6 {
		t.Fatalf("ticks don't cover the range: first %g last %g",
			ticks[0].Value, ticks[len(ticks)-1].Value)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Value <= ticks[i-1].Value {
			t.Fatalf("ticks not increasing at %d: %g then %g", i, ticks[i-1].Value, ticks[i].Value)
		}
	}
}
