package gestures

import "math"

// fingerOrigin records when and where a tracking id was first seen,
// used by ImmediateInterpreter and PalmClassifyingFilter to judge a
// contact's age and total travel.
type fingerOrigin struct {
	timestamp  Time
	x, y       float64
	maxPressure float64
	seen       bool
}

// FingerMetrics tracks, per tracking id, the frame at which the
// contact first appeared. It is the core's single source of truth for
// "how long has this finger been down" and "how far has it travelled
// since touchdown", consumed by ImmediateInterpreter's resting-thumb
// test and by the palm classifier.
type FingerMetrics struct {
	origins map[int16]*fingerOrigin
}

// NewFingerMetrics returns an empty tracker.
func NewFingerMetrics() *FingerMetrics {
	return &FingerMetrics{origins: make(map[int16]*fingerOrigin)}
}

// Update records origins for any new tracking id in hs and evicts ids
// no longer present.
func (m *FingerMetrics) Update(hs *HardwareState) {
	present := make(map[int16]bool, len(hs.Fingers))
	for i := range hs.Fingers {
		fs := &hs.Fingers[i]
		present[fs.TrackingID] = true
		o, ok := m.origins[fs.TrackingID]
		if !ok {
			o = &fingerOrigin{timestamp: hs.Timestamp, x: fs.X, y: fs.Y}
			m.origins[fs.TrackingID] = o
		}
		if fs.Pressure > o.maxPressure {
			o.maxPressure = fs.Pressure
		}
	}
	for id := range m.origins {
		if !present[id] {
			delete(m.origins, id)
		}
	}
}

// Origin returns the touchdown time and position for id, or ok=false
// if id is not currently tracked.
func (m *FingerMetrics) Origin(id int16) (t Time, x, y float64, ok bool) {
	o, found := m.origins[id]
	if !found {
		return 0, 0, 0, false
	}
	return o.timestamp, o.x, o.y, true
}

// Age returns how long id has been down as of now.
func (m *FingerMetrics) Age(id int16, now Time) (Duration, bool) {
	o, found := m.origins[id]
	if !found {
		return 0, false
	}
	return now.Sub(o.timestamp), true
}

// MaxPressure returns the largest pressure observed for id since
// touchdown.
func (m *FingerMetrics) MaxPressure(id int16) (float64, bool) {
	o, found := m.origins[id]
	if !found {
		return 0, false
	}
	return o.maxPressure, true
}

// Travel returns the straight-line distance from touchdown to (x, y).
func (m *FingerMetrics) Travel(id int16, x, y float64) (float64, bool) {
	o, found := m.origins[id]
	if !found {
		return 0, false
	}
	dx, dy := x-o.x, y-o.y
	return math.Hypot(dx, dy), true
}

func (m *FingerMetrics) Clear() { m.origins = make(map[int16]*fingerOrigin) }

// historySample is one retained (timestamp, FingerState) pair.
type historySample struct {
	t  Time
	fs FingerState
}

// FingerHistory is a bounded FIFO of samples per tracking id, used by
// TrendClassifyingFilter (Kendall-tau over 6-20 samples) and by
// FingerMergeFilter.
type FingerHistory struct {
	depth   int
	samples map[int16][]historySample
}

// NewFingerHistory returns a tracker retaining up to depth samples per
// tracking id.
func NewFingerHistory(depth int) *FingerHistory {
	if depth <= 0 {
		depth = 20
	}
	return &FingerHistory{depth: depth, samples: make(map[int16][]historySample)}
}

// Push appends a sample for id, evicting the oldest once over depth.
func (h *FingerHistory) Push(id int16, t Time, fs FingerState) {
	s := h.samples[id]
	s = append(s, historySample{t: t, fs: fs})
	if len(s) > h.depth {
		s = s[len(s)-h.depth:]
	}
	h.samples[id] = s
}

// Samples returns the retained samples for id, oldest first.
func (h *FingerHistory) Samples(id int16) []historySample {
	return h.samples[id]
}

// Prune drops history for any id not present in ids.
func (h *FingerHistory) Prune(ids map[int16]bool) {
	for id := range h.samples {
		if !ids[id] {
			delete(h.samples, id)
		}
	}
}

func (h *FingerHistory) Clear() { h.samples = make(map[int16][]historySample) }
