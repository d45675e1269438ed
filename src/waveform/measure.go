package waveform

import "math"

// ChannelStats are the automatic measurements shown in the measurements
// panel: amplitude extremes plus timing derived from mean-level crossings.
type ChannelStats struct {
	VMax   float64
	VMin   float64
	VPP    float64
	Mean   float64
	Freq   float64 // Hz, 0 when fewer than two crossings
	Period float64 // seconds
	Rise   float64 // 10%..90% rise time, 0 when no edge found
	Fall   float64 // 90%..10% fall time
	Duty   float64 // percent of the cycle above the mean level
}

// Stats computes automatic measurements for one series over the shared time
// base. Timing figures use crossings of the mean level, so they are only
// meaningful for roughly periodic signals; amplitude figures always hold.
func Stats(tb, values []float64) ChannelStats {
	var st ChannelStats
	n := len(values)
	if n == 0 || len(tb) != n {
		return st
	}

	st.VMax = values[0]
	st.VMin = values[0]
	sum := 0.0
	for _, v := range values {
		if v > st.VMax {
			st.VMax = v
		}
		if v < st.VMin {
			st.VMin = v
		}
		sum += v
	}
	st.VPP = st.VMax - st.VMin
	st.Mean = sum / float64(n)

	// Mean-level crossings, sample index of the point before each crossing.
	var crossings []int
	for i := 0; i+1 < n; i++ {
		if math.Signbit(values[i]-st.Mean) != math.Signbit(values[i+1]-st.Mean) {
			crossings = append(crossings, i)
		}
	}
	if len(crossings) > 1 {
		// Same-direction crossings are two apart; their spacing is one period.
		var periods []float64
		for i := 0; i+2 < len(crossings); i += 2 {
			periods = append(periods, tb[crossings[i+2]]-tb[crossings[i]])
		}
		if len(periods) > 0 {
			sum := 0.0
			for _, p := range periods {
				sum += p
			}
			st.Period = sum / float64(len(periods))
			if st.Period > 0 {
				st.Freq = 1 / st.Period
			}
		}
		// Duty: alternate inter-crossing intervals are the above-mean halves.
		high, total := 0.0, 0.0
		for i := 0; i+1 < len(crossings); i++ {
			d := tb[crossings[i+1]] - tb[crossings[i]]
			total += d
			if i%2 == 0 {
				high += d
			}
		}
		if total > 0 {
			st.Duty = high / total * 100
		}
	}

	// 10%-90% edge times from single-sample transitions across both
	// thresholds, averaged over all edges found.
	v10 := st.VMin + 0.1*st.VPP
	v90 := st.VMin + 0.9*st.VPP
	var rises, falls []float64
	for i := 0; i+1 < n; i++ {
		switch {
		case values[i] <= v10 && values[i+1] >= v90:
			rises = append(rises, tb[i+1]-tb[i])
		case values[i] >= v90 && values[i+1] <= v10:
			falls = append(falls, tb[i+1]-tb[i])
		}
	}
	st.Rise = meanOf(rises)
	st.Fall = meanOf(falls)
	return st
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
