package gestures

// T5R2CorrectingFilter handles "track 5, report 2" sensors: a sensor
// that can count up to 5 simultaneous touches but only reports
// coordinates for 2. Such sensors sometimes get stuck reporting an
// unchanged non-zero touch count with zero actual fingers; this filter
// zeroes touch_cnt in that case so downstream stages don't believe
// phantom fingers are present.
type T5R2CorrectingFilter struct {
	FilterInterpreter

	lastTouchCnt  int
	stuckFrames   int
}

// t5r2StuckFrameThreshold is how many consecutive zero-finger frames with
// an unchanged non-zero touch count are required before correcting.
const t5r2StuckFrameThreshold = 2

func NewT5R2CorrectingFilter(next Interpreter) *T5R2CorrectingFilter {
	return &T5R2CorrectingFilter{FilterInterpreter: *NewFilterInterpreter("T5R2CorrectingFilter", next)}
}

func (t *T5R2CorrectingFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	t.InitSelf(hwProps, consumer, t)
}

func (t *T5R2CorrectingFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	if t.hwProps.T5R2 {
		reported := hs.TouchCnt
		if hs.FingerCnt == 0 && reported != 0 && reported == t.lastTouchCnt {
			t.stuckFrames++
			if t.stuckFrames >= t5r2StuckFrameThreshold {
				hs.TouchCnt = 0
			}
		} else {
			t.stuckFrames = 0
		}
		t.lastTouchCnt = reported
	}

	var dt Duration = NoDeadline
	if t.Next() != nil {
		t.Next().SyncInterpret(hs, &dt)
	}
	*timeout = t.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (t *T5R2CorrectingFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = t.DispatchTimer(now, nil)
}

func (t *T5R2CorrectingFilter) Clear() {
	t.FilterInterpreter.Clear()
	t.lastTouchCnt, t.stuckFrames = 0, 0
}
