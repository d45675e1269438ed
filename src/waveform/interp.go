package waveform

import "sort"

// Interpolate returns the value of a series at time t using linear
// interpolation between the two bracketing samples. Times outside the time
// base clamp to the first/last sample. When t lands exactly on a sample the
// raw sample value is returned, so grid points carry no interpolation error.
func Interpolate(tb, values []float64, t float64) float64 {
	n := len(tb)
	if n == 0 || len(values) != n {
		return 0
	}
	if t <= tb[0] {
		return values[0]
	}
	if t >= tb[n-1] {
		return values[n-1]
	}
	// First index with tb[i] >= t; n>1 here and t within (tb[0], tb[n-1]).
	i := sort.SearchFloat64s(tb, t)
	if tb[i] == t {
		return values[i]
	}
	t0, t1 := tb[i-1], tb[i]
	f := (t - t0) / (t1 - t0)
	return values[i-1] + f*(values[i]-values[i-1])
}

// Clamp limits t into [min,max]. Out-of-range positions are not an error,
// they silently clamp.
func Clamp(t, min, max float64) float64 {
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}
