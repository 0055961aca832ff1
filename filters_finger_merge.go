package gestures

// FingerMergeFilter flags contacts whose recent histories indicate they
// are the same physical finger that the sensor reported as a split
// pair (common on some semi-mt sensors under heavy pressure). Flagged
// contacts are marked MERGE; they are not removed, since downstream
// stages (palm classification, tap counting) need to make their own
// call about which of the pair to keep.
type FingerMergeFilter struct {
	FilterInterpreter

	// MergeDistance: contacts closer than this (mm) with near-identical
	// velocity are considered merge candidates.
	MergeDistance float64

	history *FingerHistory
}

func NewFingerMergeFilter(next Interpreter) *FingerMergeFilter {
	return &FingerMergeFilter{
		FilterInterpreter: *NewFilterInterpreter("FingerMergeFilter", next),
		MergeDistance:     5.0,
		history:           NewFingerHistory(3),
	}
}

func (m *FingerMergeFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	m.InitSelf(hwProps, consumer, m)
}

func (m *FingerMergeFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	for i := range hs.Fingers {
		a := &hs.Fingers[i]
		for j := i + 1; j < len(hs.Fingers); j++ {
			b := &hs.Fingers[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			dist2 := dx*dx + dy*dy
			if dist2 <= m.MergeDistance*m.MergeDistance && m.sameVelocity(a.TrackingID, b.TrackingID, hs.Timestamp) {
				a.Flags |= Merge
				b.Flags |= Merge
			}
		}
		m.history.Push(a.TrackingID, hs.Timestamp, *a)
	}
	present := make(map[int16]bool, len(hs.Fingers))
	for _, f := range hs.Fingers {
		present[f.TrackingID] = true
	}
	m.history.Prune(present)

	var dt Duration = NoDeadline
	if m.Next() != nil {
		m.Next().SyncInterpret(hs, &dt)
	}
	*timeout = m.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

// sameVelocity approximates "moving together" by comparing each
// contact's most recent displacement.
func (m *FingerMergeFilter) sameVelocity(a, b int16, now Time) bool {
	ha, hb := m.history.Samples(a), m.history.Samples(b)
	if len(ha) < 2 || len(hb) < 2 {
		return false
	}
	pa0, pa1 := ha[len(ha)-2], ha[len(ha)-1]
	pb0, pb1 := hb[len(hb)-2], hb[len(hb)-1]
	dax, day := pa1.fs.X-pa0.fs.X, pa1.fs.Y-pa0.fs.Y
	dbx, dby := pb1.fs.X-pb0.fs.X, pb1.fs.Y-pb0.fs.Y
	return sign(dax) == sign(dbx) && sign(day) == sign(dby)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func (m *FingerMergeFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = m.DispatchTimer(now, nil)
}

func (m *FingerMergeFilter) Clear() {
	m.FilterInterpreter.Clear()
	m.history.Clear()
}
