package cursor

import "github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"

// ChannelDelta is the per-channel voltage reading between the two cursors.
type ChannelDelta struct {
	Channel string
	VA      float64 // interpolated value at cursor A's time
	VB      float64 // interpolated value at cursor B's time
	DeltaV  float64 // VB - VA
}

// Measurement is derived on demand from the cursor pair and the currently
// visible channels. When fewer than two cursors are visible the record is
// partial: HasDelta/HasFrequency stay false and Deltas carry only the values
// under the visible cursor.
type Measurement struct {
	HasA, HasB   bool
	TimeA, TimeB float64

	HasDelta bool
	DeltaT   float64 // |tB - tA|, seconds

	HasFrequency bool
	Frequency    float64 // 1/Δt, only when Δt > 0

	Deltas []ChannelDelta // visible channels, file order
}

// Measure computes the current measurement record. It is a pure read: no
// engine or store state changes. Hidden channels are excluded.
func (e *Engine) Measure(store *waveform.Store) Measurement {
	var m Measurement
	ca, cb := e.cursors[A], e.cursors[B]
	m.HasA = ca.state != Hidden
	m.HasB = cb.state != Hidden
	if m.HasA {
		m.TimeA = ca.time
	}
	if m.HasB {
		m.TimeB = cb.time
	}
	if m.HasA && m.HasB {
		dt := m.TimeB - m.TimeA
		if dt < 0 {
			dt = -dt
		}
		m.HasDelta = true
		m.DeltaT = dt
		if dt > 0 {
			m.HasFrequency = true
			m.Frequency = 1 / dt
		}
	}
	if store == nil || store.Empty() || (!m.HasA && !m.HasB) {
		return m
	}
	tb := store.Timebase()
	for _, ch := range store.Channels() {
		if !ch.Visible {
			continue
		}
		d := ChannelDelta{Channel: ch.ID}
		if m.HasA {
			d.VA = waveform.Interpolate(tb, ch.Values, m.TimeA)
		}
		if m.HasB {
			d.VB = waveform.Interpolate(tb, ch.Values, m.TimeB)
		}
		if m.HasA && m.HasB {
			d.DeltaV = d.VB - d.VA
		}
		m.Deltas = append(m.Deltas, d)
	}
	return m
}
