package gestures

// FlingStopFilter watches for new fingers touching down while an
// inertial fling (emitted downstream as Fling{FlingState: START}) is
// believed active. Rather than halting the fling on the very first
// frame, it arms a short FlingStopTimeout grace deadline; when that
// deadline trips, a synthetic Fling{TAP_DOWN} is injected. If two or
// more new fingers arrive before the deadline fires (looks like the
// start of a two-finger scroll rather than a stray touch), the
// deadline is extended once by FlingStopExtraDelay to give the
// classifier a moment to decide.
type FlingStopFilter struct {
	FilterInterpreter

	FlingStopTimeout    Duration
	FlingStopExtraDelay Duration

	flingActive   bool
	prevFingerIDs map[int16]bool
	// newSinceFling collects ids that touched down after the fling
	// started, for the ≥2-finger extension test.
	newSinceFling map[int16]bool
	deadline      Time
	hasDeadline   bool
	extended      bool
}

func NewFlingStopFilter(next Interpreter) *FlingStopFilter {
	return &FlingStopFilter{
		FilterInterpreter:   *NewFilterInterpreter("FlingStopFilter", next),
		FlingStopTimeout:    0.03,
		FlingStopExtraDelay: 0.055,
		prevFingerIDs:       make(map[int16]bool),
		newSinceFling:       make(map[int16]bool),
	}
}

func (f *FlingStopFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	f.InitSelf(hwProps, consumer, f)
}

func (f *FlingStopFilter) ConsumeGesture(g Gesture) {
	switch g.Type {
	case GestureTypeFling:
		if g.FlingState == FlingStateStart {
			f.flingActive = true
			f.newSinceFling = make(map[int16]bool)
			f.hasDeadline = false
			f.extended = false
		}
	case GestureTypeMove, GestureTypeScroll, GestureTypePinch:
		// Real motion downstream means the classifier already decided;
		// the pending stop is moot.
		f.disarm()
	}
	f.ProduceGesture(g)
}

func (f *FlingStopFilter) disarm() {
	f.flingActive = false
	f.hasDeadline = false
	f.extended = false
}

// fireTapDown injects the synthetic fling-stop and disarms.
func (f *FlingStopFilter) fireTapDown(now Time) {
	f.ProduceGesture(NewFlingGesture(now, now, 0, 0, FlingStateTapDown))
	f.disarm()
}

func (f *FlingStopFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	cur := make(map[int16]bool, len(hs.Fingers))
	anyNew := false
	for _, fs := range hs.Fingers {
		cur[fs.TrackingID] = true
		if !f.prevFingerIDs[fs.TrackingID] {
			anyNew = true
			if f.flingActive {
				f.newSinceFling[fs.TrackingID] = true
			}
		}
	}

	if f.flingActive {
		if !f.hasDeadline && anyNew {
			f.deadline = hs.Timestamp.Add(f.FlingStopTimeout)
			f.hasDeadline = true
		}
		// Extension is only meaningful while the deadline has not yet
		// fired, and only happens once.
		if f.hasDeadline && !f.extended && len(f.newSinceFling) >= 2 {
			f.deadline = f.deadline.Add(f.FlingStopExtraDelay)
			f.extended = true
		}
		if f.hasDeadline && hs.Timestamp >= f.deadline {
			f.fireTapDown(hs.Timestamp)
		}
	}
	f.prevFingerIDs = cur

	var dt Duration = NoDeadline
	if f.Next() != nil {
		f.Next().SyncInterpret(hs, &dt)
	}

	var localDeadline Time
	haveLocal := false
	if f.hasDeadline {
		localDeadline = f.deadline
		haveLocal = true
	}
	*timeout = f.SetNextDeadlineAndReturnTimeout(hs.Timestamp, localDeadline, haveLocal, dt)
}

func (f *FlingStopFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = f.DispatchTimer(now, func(now Time, out *Duration) (bool, Duration) {
		if f.flingActive && f.hasDeadline && now >= f.deadline {
			f.fireTapDown(now)
		}
		return true, NoDeadline
	})
}

func (f *FlingStopFilter) Clear() {
	f.FilterInterpreter.Clear()
	f.flingActive = false
	f.prevFingerIDs = make(map[int16]bool)
	f.newSinceFling = make(map[int16]bool)
	f.hasDeadline = false
	f.extended = false
}
