package waveform

import (
	"math"
	"testing"
)

// squareWave builds periods of 10 samples (5 low at 0V, 5 high at 5V) on a
// 100µs sample grid, so the period is 1ms.
func squareWave(periods int) (tb, vals []float64) {
	n := periods * 10
	for i := 0; i < n; i++ {
		tb = append(tb, float64(i)*1e-4)
		if i%10 < 5 {
			vals = append(vals, 0)
		} else {
			vals = append(vals, 5)
		}
	}
	return tb, vals
}

func near(got, want, tol float64) bool { return math.Abs(got-want) <= tol }

func TestStats_SquareWave(t *testing.T) {
	tb, vals := squareWave(4)
	st := Stats(tb, vals)

	if st.VMax != 5 || st.VMin != 0 || st.VPP != 5 {
		t.Fatalf("amplitude got max=%g min=%g vpp=%g", st.VMax, st.VMin, st.VPP)
	}
	if !near(st.Mean, 2.5, 1e-9) {
		t.Fatalf("mean got %g want 2.5", st.Mean)
	}
	if !near(st.Period, 1e-3, 1e-9) {
		t.Fatalf("period got %g want 1e-3", st.Period)
	}
	if !near(st.Freq, 1000, 1e-6) {
		t.Fatalf("freq got %g want 1000", st.Freq)
	}
	if !near(st.Duty, 50, 1e-6) {
		t.Fatalf("duty got %g want 50", st.Duty)
	}
	// edges are single-sample transitions, so 10-90 time is one sample step
	if !near(st.Rise, 1e-4, 1e-9) {
		t.Fatalf("rise got %g want 1e-4", st.Rise)
	}
	if !near(st.Fall, 1e-4, 1e-9) {
		t.Fatalf("fall got %g want 1e-4", st.Fall)
	}
}

func TestStats_FlatSignal(t *testing.T) {
	tb := []float64{0, 1, 2, 3}
	vals := []float64{1.5, 1.5, 1.5, 1.5}
	st := Stats(tb, vals)
	if st.VPP != 0 || st.VMax != 1.5 || st.VMin != 1.5 {
		t.Fatalf("amplitude got max=%g min=%g vpp=%g", st.VMax, st.VMin, st.VPP)
	}
	if st.Freq != 0 || st.Period != 0 {
		t.Fatalf("flat signal must not report timing, got f=%g T=%g", st.Freq, st.Period)
	}
}

func TestStats_EmptyAndMismatched(t *testing.T) {
	if st := Stats(nil, nil); st.VPP != 0 || st.Freq != 0 {
		t.Fatalf("empty stats not zero: %+v", st)
	}
	if st := Stats([]float64{0, 1}, []float64{5}); st.VPP != 0 {
		t.Fatalf("mismatched stats not zero: %+v", st)
	}
}

func TestStats_SineFrequency(t *testing.T) {
	// 50 Hz sine sampled at 10 kHz over 5 cycles
	var tb, vals []float64
	for i := 0; i < 1000; i++ {
		ti := float64(i) * 1e-4
		tb = append(tb, ti)
		vals = append(vals, 3*math.Sin(2*math.Pi*50*ti))
	}
	st := Stats(tb, vals)
	if !near(st.Freq, 50, 1) {
		t.Fatalf("sine freq got %g want ~50", st.Freq)
	}
	if !near(st.VPP, 6, 0.1) {
		t.Fatalf("sine vpp got %g want ~6", st.VPP)
	}
}
