// Package waveform holds parsed oscilloscope captures: the shared time base,
// one voltage series per channel, and per-channel visibility flags.
package waveform

// Channel is one named voltage-vs-time series from a capture. Sample data is
// immutable after load; only the visibility flag changes during a session.
type Channel struct {
	ID      string
	Values  []float64 // one voltage per time-base entry
	Visible bool
	Color   string // palette name assigned in file order
}

// Palette is the channel color cycle, in assignment order.
var Palette = []string{"yellow", "cyan", "magenta", "lime", "red", "orange", "white", "purple"}

// Capture is one fully parsed CSV: metadata preamble, time base and channels.
// A Capture is built in one shot by Parse and never mutated afterwards except
// for channel visibility.
type Capture struct {
	Timebase []float64 // strictly increasing, seconds
	Channels []Channel
	Meta     map[string]string
}

// Store owns the current capture. All mutation must happen on the UI event
// thread; background loads parse into a fresh Capture and hand it over via
// Replace so a failed load never leaves mixed old/new channels visible.
type Store struct {
	cap *Capture
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Replace atomically installs a new capture, dropping the previous one.
func (s *Store) Replace(c *Capture) { s.cap = c }

// Empty reports whether no capture is loaded.
func (s *Store) Empty() bool { return s.cap == nil || len(s.cap.Timebase) == 0 }

// Channels returns the current ordered channel set. The returned slice is a
// copy; sample slices are shared and must be treated as read-only.
func (s *Store) Channels() []Channel {
	if s.cap == nil {
		return nil
	}
	out := make([]Channel, len(s.cap.Channels))
	copy(out, s.cap.Channels)
	return out
}

// Channel returns the channel with the given id, or false.
func (s *Store) Channel(id string) (Channel, bool) {
	if s.cap == nil {
		return Channel{}, false
	}
	for _, c := range s.cap.Channels {
		if c.ID == id {
			return c, true
		}
	}
	return Channel{}, false
}

// SetVisible toggles one channel's visibility flag. Sample data is untouched.
// Returns false when the channel id is unknown.
func (s *Store) SetVisible(id string, visible bool) bool {
	if s.cap == nil {
		return false
	}
	for i := range s.cap.Channels {
		if s.cap.Channels[i].ID == id {
			s.cap.Channels[i].Visible = visible
			return true
		}
	}
	return false
}

// Timebase returns the shared time coordinates. Read-only.
func (s *Store) Timebase() []float64 {
	if s.cap == nil {
		return nil
	}
	return s.cap.Timebase
}

// TimeBounds returns the [min,max] of the loaded time base.
func (s *Store) TimeBounds() (min, max float64, ok bool) {
	if s.Empty() {
		return 0, 0, false
	}
	tb := s.cap.Timebase
	return tb[0], tb[len(tb)-1], true
}

// Meta returns the metadata preamble of the current capture (may be empty).
func (s *Store) Meta() map[string]string {
	if s.cap == nil {
		return nil
	}
	return s.cap.Meta
}

// ValueAt interpolates the named channel's voltage at time t, clamped to the
// time base. Returns false for unknown or empty channels.
func (s *Store) ValueAt(id string, t float64) (float64, bool) {
	c, ok := s.Channel(id)
	if !ok || s.Empty() {
		return 0, false
	}
	return Interpolate(s.cap.Timebase, c.Values, t), true
}
