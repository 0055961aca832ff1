package gestures

// TimestampFilter replaces host timestamps with a monotonic clock
// reconstructed from the device's own hardware event-time estimate
// (msc_timestamp), re-basing on the first frame and on any backward
// jump, so that stages downstream always see non-decreasing time even
// when the host's own clock glitches.
//
// When FakeTimestampDelta is set (>0), it instead synthesizes a
// uniformly-spaced timeline, ignoring both the host and device clocks
// — used by replay tooling that doesn't care about real timing.
type TimestampFilter struct {
	FilterInterpreter

	FakeTimestampDelta Duration

	haveOffset   bool
	offset       float64 // hostTime - mscTimestamp at rebase
	lastMsc      float64
	lastHostTime Time
	fakeNow      Time
	haveFake     bool

	// skew is recorded per frame so emitted gestures could, in
	// principle, be translated back to the host clock; the core keeps
	// it purely for the activity log's TimestampDebug entries.
	skew float64

	log interface {
		LogTimestampDebug(a, b float64)
	}
}

// NewTimestampFilter wraps next.
func NewTimestampFilter(next Interpreter) *TimestampFilter {
	return &TimestampFilter{FilterInterpreter: *NewFilterInterpreter("TimestampFilter", next)}
}

// SetLog attaches the activity log sink used for per-frame skew debug
// entries; optional.
func (t *TimestampFilter) SetLog(log interface{ LogTimestampDebug(a, b float64) }) {
	t.log = log
}

func (t *TimestampFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	t.InitSelf(hwProps, consumer, t)
}

func (t *TimestampFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	if t.FakeTimestampDelta > 0 {
		if !t.haveFake {
			t.fakeNow = hs.Timestamp
			t.haveFake = true
		} else {
			t.fakeNow = t.fakeNow.Add(t.FakeTimestampDelta)
		}
		hs.Timestamp = t.fakeNow
	} else if hs.MscTimestamp != 0 {
		if !t.haveOffset || hs.MscTimestamp < t.lastMsc {
			t.offset = hs.Timestamp.Seconds() - hs.MscTimestamp
			t.haveOffset = true
		}
		t.lastMsc = hs.MscTimestamp
		rebased := hs.MscTimestamp + t.offset
		t.skew = hs.Timestamp.Seconds() - rebased
		hs.Timestamp = Time(rebased)
		if t.log != nil {
			t.log.LogTimestampDebug(t.skew, hs.MscTimestamp)
		}
	}
	t.lastHostTime = hs.Timestamp

	var dt Duration = NoDeadline
	if t.Next() != nil {
		t.Next().SyncInterpret(hs, &dt)
	}
	*timeout = t.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (t *TimestampFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = t.DispatchTimer(now, nil)
}

func (t *TimestampFilter) Clear() {
	t.FilterInterpreter.Clear()
	t.haveOffset, t.haveFake = false, false
	t.offset, t.lastMsc, t.skew = 0, 0, 0
}
