package gestures

import "math"

// tapState is the tap-to-click machine's current state.
type tapState int

const (
	tapStateIdle tapState = iota
	tapStateFirstTapBegan
	tapStateTapComplete
	tapStateSubsequentTapBegan
	tapStateDrag
	tapStateDragRelease
	tapStateDragRetouch
)

func (s tapState) String() string {
	switch s {
	case tapStateIdle:
		return "Idle"
	case tapStateFirstTapBegan:
		return "FirstTapBegan"
	case tapStateTapComplete:
		return "TapComplete"
	case tapStateSubsequentTapBegan:
		return "SubsequentTapBegan"
	case tapStateDrag:
		return "Drag"
	case tapStateDragRelease:
		return "DragRelease"
	case tapStateDragRetouch:
		return "DragRetouch"
	default:
		return "Unknown"
	}
}

// tapRecord is the tap machine's per-gesture scratchpad: the touched
// tracking ids, the accumulated travel, a sticky "moved too far" flag
// and the contact count. It does not record per-contact pressure.
type tapRecord struct {
	touchedIDs map[int16]bool
	maxTravel  float64
	tooFar     bool
	count      int // number of distinct contacts seen during this tap
}

func newTapRecord() *tapRecord {
	return &tapRecord{touchedIDs: make(map[int16]bool)}
}

// scrollSample is one buffered (dx, dy, dt) triple used to compute a
// fling's initial velocity (see regressVelocity).
type scrollSample struct {
	dx, dy float64
	dt     Duration
}

// ImmediateInterpreter is the terminal touchpad stage: it classifies
// every frame into a pointing gesture (move/scroll/pinch/swipe/fling)
// and runs the tap-to-click state machine. It has no downstream stage,
// so it embeds baseInterpreter directly rather than FilterInterpreter.
type ImmediateInterpreter struct {
	baseInterpreter

	metrics *FingerMetrics

	// Tunables, all exported so a host's property
	// provider can bind them directly.
	TapEnable                    bool
	TapPaused                    bool
	TapTimeout                   Duration
	TapDragTimeout               Duration
	TapMoveDistMM                float64
	TappingFingerMinSeparationMM float64
	MotionTapPreventTimeout      Duration
	TapMinPressure               float64

	RestingThumbEdgeMM      float64
	RestingThumbMaxTravelMM float64

	MoveMinDistMM   float64
	SnapSlope       float64 // orthogonal/primary ratio below which a move/scroll snaps to axis
	ScrollSnapRatio float64 // dominant-axis ratio required to lock a 2-finger scroll to one axis

	PinchEnable          bool
	PinchMinSeparationMM float64
	PinchWarmupFrames    int
	PinchFastSpreadMMS   float64

	FlingBufferDepth int

	state tapState
	// deadline is the absolute time the tap machine's current state
	// wants a callback, if any.
	deadline    Time
	hasDeadline bool

	tap *tapRecord

	prevPositions   map[int16][2]float64
	prevTimestamp   Time
	havePrev        bool
	prevButtonsDown ButtonFlags

	// Scroll/fling bookkeeping.
	scrollActive bool
	scrollBuf    []scrollSample

	// Pinch bookkeeping.
	pinchWarm       int
	pinchLastSep    float64
	pinchActive     bool

	// Multi-finger swipe bookkeeping.
	swipeActive   bool
	swipeFour     bool

	lastKeyboardAt  Time
	haveLastKeyboard bool
}

// NewImmediateInterpreter returns the terminal touchpad stage. metrics
// is shared with PalmClassifyingFilter so both see the same per-finger
// origin bookkeeping.
func NewImmediateInterpreter(metrics *FingerMetrics) *ImmediateInterpreter {
	return &ImmediateInterpreter{
		baseInterpreter: baseInterpreter{name: "ImmediateInterpreter"},
		metrics:         metrics,

		TapEnable:                    true,
		TapTimeout:                   0.05,
		TapDragTimeout:               0.7,
		TapMoveDistMM:                2.0,
		TappingFingerMinSeparationMM: 5.0,
		MotionTapPreventTimeout:      0.2,
		TapMinPressure:               25,

		RestingThumbEdgeMM:      20,
		RestingThumbMaxTravelMM: 2,

		MoveMinDistMM:   0.0,
		SnapSlope:        0.25,
		ScrollSnapRatio:  2.0,

		PinchEnable:          true,
		PinchMinSeparationMM: 10,
		PinchWarmupFrames:    3,
		PinchFastSpreadMMS:   60,

		FlingBufferDepth: 5,

		state: tapStateIdle,
		tap:   newTapRecord(),

		prevPositions: make(map[int16][2]float64),
	}
}

func (ii *ImmediateInterpreter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	ii.baseInterpreter.Initialize(hwProps, consumer)
}

// NotifyKeyboardActivity lets a host tell the interpreter a key was
// pressed; this suppresses tap generation for
// MotionTapPreventTimeout.
func (ii *ImmediateInterpreter) NotifyKeyboardActivity(at Time) {
	ii.lastKeyboardAt = at
	ii.haveLastKeyboard = true
}

func (ii *ImmediateInterpreter) keyboardSuppressesTap(now Time) bool {
	return ii.haveLastKeyboard && now.Sub(ii.lastKeyboardAt) < ii.MotionTapPreventTimeout
}

// tapEligibleFingers returns the subset of hs.Fingers eligible to
// contribute to a tap: not palm, not disqualified by NoTap, above the
// pressure floor. Fingers whose bounding box is closer together than
// TappingFingerMinSeparationMM collapse to a single representative.
func (ii *ImmediateInterpreter) tapEligibleFingers(hs *HardwareState) []*FingerState {
	var out []*FingerState
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		if f.Flags.Has(Palm) || f.Flags.Has(PossiblePalm) || f.Flags.Has(NoTap) {
			continue
		}
		if f.Pressure < ii.TapMinPressure {
			continue
		}
		out = append(out, f)
	}
	return collapseClose(out, ii.TappingFingerMinSeparationMM)
}

func collapseClose(fingers []*FingerState, minSepMM float64) []*FingerState {
	if len(fingers) < 2 {
		return fingers
	}
	keep := make([]bool, len(fingers))
	for i := range fingers {
		keep[i] = true
	}
	for i := 0; i < len(fingers); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(fingers); j++ {
			if !keep[j] {
				continue
			}
			if math.Hypot(fingers[i].X-fingers[j].X, fingers[i].Y-fingers[j].Y) < minSepMM {
				keep[j] = false
			}
		}
	}
	out := fingers[:0:0]
	for i, f := range fingers {
		if keep[i] {
			out = append(out, f)
		}
	}
	return out
}

// restingThumb reports whether f looks like a thumb resting near the
// bottom edge of the pad: close to the bottom edge and travelled
// almost nothing since it touched down.
func (ii *ImmediateInterpreter) restingThumb(f *FingerState) bool {
	if ii.hwProps == nil {
		return false
	}
	nearBottom := ii.hwProps.Bottom-f.Y < ii.RestingThumbEdgeMM
	if !nearBottom {
		return false
	}
	travel, ok := ii.metrics.Travel(f.TrackingID, f.X, f.Y)
	if !ok {
		return false
	}
	return travel < ii.RestingThumbMaxTravelMM
}

// pointingFingers returns the fingers that participate in motion
// classification: not palm, not a resting thumb.
func (ii *ImmediateInterpreter) pointingFingers(hs *HardwareState) []*FingerState {
	var out []*FingerState
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		if f.Flags.Has(Palm) {
			continue
		}
		if ii.restingThumb(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (ii *ImmediateInterpreter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	now := hs.Timestamp

	ii.handleHardwareButtons(hs, now)

	tapEligible := ii.tapEligibleFingers(hs)
	ii.stepTapStateMachine(hs, tapEligible, now)

	pointing := ii.pointingFingers(hs)
	ii.classifyMotion(hs, pointing, now)

	ii.rememberPositions(hs, now)

	*timeout = ii.combinedTimeout(now)
}

func (ii *ImmediateInterpreter) rememberPositions(hs *HardwareState, now Time) {
	cur := make(map[int16][2]float64, len(hs.Fingers))
	for _, f := range hs.Fingers {
		cur[f.TrackingID] = [2]float64{f.X, f.Y}
	}
	ii.prevPositions = cur
	ii.prevTimestamp = now
	ii.havePrev = true
	ii.prevButtonsDown = hs.ButtonsDown
}

func (ii *ImmediateInterpreter) combinedTimeout(now Time) Duration {
	if !ii.hasDeadline {
		return NoDeadline
	}
	return ii.deadline.Sub(now)
}

// handleHardwareButtons passes through a real mechanical button-pad
// click, cancelling any in-progress tap to Idle without emitting a
// tap.
func (ii *ImmediateInterpreter) handleHardwareButtons(hs *HardwareState, now Time) {
	if hs.ButtonsDown == ii.prevButtonsDown {
		return
	}
	down := hs.ButtonsDown &^ ii.prevButtonsDown
	up := ii.prevButtonsDown &^ hs.ButtonsDown
	if hs.ButtonsDown != 0 && ii.state != tapStateIdle {
		ii.resetTap()
	}
	if down != 0 || up != 0 {
		ii.ProduceGesture(NewButtonsChangeGesture(now, now, down, up, false))
	}
}

func (ii *ImmediateInterpreter) resetTap() {
	ii.state = tapStateIdle
	ii.hasDeadline = false
	ii.tap = newTapRecord()
}

func (ii *ImmediateInterpreter) setDeadline(now Time, d Duration) {
	ii.deadline = now.Add(d)
	ii.hasDeadline = true
}

// tapButtonsForCount maps the number of simultaneous tap-eligible
// contacts to the button(s) a completed tap synthesizes.
func tapButtonsForCount(n int) ButtonFlags {
	switch n {
	case 1:
		return ButtonLeft
	case 2:
		return ButtonRight
	case 3:
		return ButtonMiddle
	case 4:
		return ButtonRight
	default:
		return 0
	}
}

// stepTapStateMachine advances the 7-state tap/drag machine by one
// frame. It only emits ButtonsChange gestures; it never
// influences pointer motion.
func (ii *ImmediateInterpreter) stepTapStateMachine(hs *HardwareState, eligible []*FingerState, now Time) {
	// Disable/pause only takes effect from Idle; an in-progress tap
	// completes first.
	if ii.state == tapStateIdle && (!ii.TapEnable || ii.TapPaused || ii.keyboardSuppressesTap(now)) {
		return
	}

	present := len(eligible) > 0

	switch ii.state {
	case tapStateIdle:
		if present {
			ii.tap = newTapRecord()
			for _, f := range eligible {
				ii.tap.touchedIDs[f.TrackingID] = true
			}
			ii.tap.count = len(eligible)
			ii.state = tapStateFirstTapBegan
			ii.setDeadline(now, ii.TapTimeout)
		}

	case tapStateFirstTapBegan:
		ii.accumulateTravel(eligible)
		for _, f := range eligible {
			ii.tap.touchedIDs[f.TrackingID] = true
			if len(ii.tap.touchedIDs) > ii.tap.count {
				ii.tap.count = len(ii.tap.touchedIDs)
			}
		}
		if !present {
			if ii.tap.tooFar {
				ii.resetTap()
				return
			}
			// Lifted inside the window: wait out the rest of the
			// original tap_timeout (anchored at touchdown, not at
			// lift) to see whether this becomes a tap-and-drag.
			ii.state = tapStateTapComplete
			return
		}
		if ii.hasDeadline && now >= ii.deadline {
			// Still held past tap_timeout: this is a long press, not
			// a tap.
			ii.resetTap()
		}

	case tapStateTapComplete:
		if present {
			// A new contact landed before the window closed: this is
			// tap-and-drag. Emit the button down now and start
			// dragging with the new contact.
			down := tapButtonsForCount(ii.tap.count)
			ii.ProduceGesture(NewButtonsChangeGesture(now, now, down, 0, true))
			ii.state = tapStateDrag
			ii.hasDeadline = false
			return
		}
		if now >= ii.deadline {
			if !ii.tap.tooFar {
				btn := tapButtonsForCount(ii.tap.count)
				ii.ProduceGesture(NewButtonsChangeGesture(now, now, btn, btn, true))
			}
			ii.resetTap()
		}

	case tapStateDrag:
		ii.accumulateTravel(eligible)
		if !present {
			ii.state = tapStateDragRelease
			ii.setDeadline(now, ii.TapDragTimeout)
		}

	case tapStateDragRelease:
		if present {
			ii.state = tapStateDragRetouch
			ii.hasDeadline = false
			return
		}
		if now >= ii.deadline {
			down := tapButtonsForCount(ii.tap.count)
			ii.ProduceGesture(NewButtonsChangeGesture(now, now, 0, down, true))
			ii.resetTap()
		}

	case tapStateDragRetouch:
		ii.accumulateTravel(eligible)
		if !present {
			ii.state = tapStateDragRelease
			ii.setDeadline(now, ii.TapDragTimeout)
		}

	case tapStateSubsequentTapBegan:
		// Reserved for multi-tap accumulation; current single-click
		// taps resolve entirely within FirstTapBegan/TapComplete.
		ii.resetTap()
	}
}

// accumulateTravel tracks the sum of per-finger movement during the
// current tap/drag so TapMoveDistMM disqualifies a tap that turned
// into a drag-like motion.
func (ii *ImmediateInterpreter) accumulateTravel(fingers []*FingerState) {
	for _, f := range fingers {
		prev, ok := ii.prevPositions[f.TrackingID]
		if !ok {
			continue
		}
		d := math.Hypot(f.X-prev[0], f.Y-prev[1])
		ii.tap.maxTravel += d
		if ii.tap.maxTravel >= ii.TapMoveDistMM {
			ii.tap.tooFar = true
		}
	}
}

// HandleTimer fires when the host's timer for this chain expires and
// it belongs to the tap machine's own deadline (ImmediateInterpreter
// is terminal, so it is always the innermost deadline holder).
func (ii *ImmediateInterpreter) HandleTimer(now Time, timeout *Duration) {
	if !ii.hasDeadline || now < ii.deadline {
		*timeout = ii.combinedTimeout(now)
		return
	}
	ii.hasDeadline = false
	ii.stepTapStateMachine(nil, nil, now)
	*timeout = ii.combinedTimeout(now)
}

func (ii *ImmediateInterpreter) Clear() {
	ii.state = tapStateIdle
	ii.hasDeadline = false
	ii.tap = newTapRecord()
	ii.prevPositions = make(map[int16][2]float64)
	ii.havePrev = false
	ii.scrollActive = false
	ii.scrollBuf = nil
	ii.pinchActive = false
	ii.pinchWarm = 0
	ii.swipeActive = false
}

// classifyMotion runs the pointing/scroll/pinch/swipe/fling classifier
// over the current pointing-finger set.
func (ii *ImmediateInterpreter) classifyMotion(hs *HardwareState, fingers []*FingerState, now Time) {
	n := len(fingers)

	if n == 0 {
		ii.liftAll(now)
		return
	}
	if !ii.havePrev {
		return
	}
	dt := now.Sub(ii.prevTimestamp)
	if dt <= 0 {
		return
	}

	switch n {
	case 1:
		ii.classifyOneFinger(fingers[0], now, dt)
	case 2:
		ii.classifyTwoFingers(fingers[0], fingers[1], now, dt)
	case 3, 4:
		ii.classifySwipe(fingers, now, dt, n == 4)
	}
}

// liftAll handles the zero-finger frame: terminate any active
// scroll/swipe with its Lift/Fling counterpart.
func (ii *ImmediateInterpreter) liftAll(now Time) {
	if ii.scrollActive {
		ii.scrollActive = false
		if len(ii.scrollBuf) >= 2 {
			vx, vy := ii.regressVelocity()
			ii.ProduceGesture(NewFlingGesture(now, now, vx, vy, FlingStateStart))
		}
		ii.scrollBuf = nil
	}
	if ii.swipeActive {
		ii.swipeActive = false
		ii.ProduceGesture(NewSwipeLiftGesture(ii.swipeFour, now, now))
	}
	ii.pinchActive = false
	ii.pinchWarm = 0
}

func (ii *ImmediateInterpreter) delta(f *FingerState) (dx, dy float64, ok bool) {
	prev, ok := ii.prevPositions[f.TrackingID]
	if !ok {
		return 0, 0, false
	}
	return f.X - prev[0], f.Y - prev[1], true
}

// snapAxis zeroes the orthogonal component of a move when it is small
// relative to the dominant one.
func (ii *ImmediateInterpreter) snapAxis(dx, dy float64) (float64, float64) {
	if dx == 0 && dy == 0 {
		return dx, dy
	}
	if math.Abs(dy) > 0 && math.Abs(dx)/math.Abs(dy) < ii.SnapSlope {
		return 0, dy
	}
	if math.Abs(dx) > 0 && math.Abs(dy)/math.Abs(dx) < ii.SnapSlope {
		return dx, 0
	}
	return dx, dy
}

func (ii *ImmediateInterpreter) classifyOneFinger(f *FingerState, now Time, dt Duration) {
	ii.endMultiFingerState(now)

	dx, dy, ok := ii.delta(f)
	if !ok {
		return
	}
	if f.Flags.Has(WarpX) {
		dx = 0
	}
	if f.Flags.Has(WarpY) {
		dy = 0
	}
	if dx == 0 && dy == 0 {
		return
	}
	if math.Hypot(dx, dy) < ii.MoveMinDistMM {
		return
	}
	sdx, sdy := ii.snapAxis(dx, dy)
	ii.ProduceGesture(NewMoveGesture(ii.prevTimestamp, now, sdx, sdy, dx, dy))
}

func (ii *ImmediateInterpreter) endMultiFingerState(now Time) {
	if ii.scrollActive {
		ii.scrollActive = false
		if len(ii.scrollBuf) >= 2 {
			vx, vy := ii.regressVelocity()
			ii.ProduceGesture(NewFlingGesture(now, now, vx, vy, FlingStateStart))
		}
		ii.scrollBuf = nil
	}
	if ii.swipeActive {
		ii.swipeActive = false
		ii.ProduceGesture(NewSwipeLiftGesture(ii.swipeFour, now, now))
	}
	ii.pinchActive = false
	ii.pinchWarm = 0
}

func (ii *ImmediateInterpreter) classifyTwoFingers(a, b *FingerState, now Time, dt Duration) {
	ii.swipeActive = false

	adx, ady, aok := ii.delta(a)
	bdx, bdy, bok := ii.delta(b)
	if !aok || !bok {
		return
	}

	sep := math.Hypot(a.X-b.X, a.Y-b.Y)
	prevSep := ii.pinchLastSep
	ii.pinchLastSep = sep

	sameDirection := (adx*bdx+ady*bdy) >= 0 && math.Hypot(adx, ady) > 1e-9 && math.Hypot(bdx, bdy) > 1e-9

	if ii.PinchEnable && !sameDirection {
		ii.tryPinch(a, b, sep, prevSep, now, dt)
		return
	}
	ii.pinchActive = false
	ii.pinchWarm = 0

	dx := (adx + bdx) / 2
	dy := (ady + bdy) / 2
	if dx == 0 && dy == 0 {
		return
	}

	// Lock the scroll to one axis once motion clearly dominates one
	// direction.
	if math.Abs(dx) > 0 && math.Abs(dy)/math.Abs(dx) >= ii.ScrollSnapRatio {
		dx = 0
	} else if math.Abs(dy) > 0 && math.Abs(dx)/math.Abs(dy) >= ii.ScrollSnapRatio {
		dy = 0
	}

	ii.scrollActive = true
	ii.scrollBuf = append(ii.scrollBuf, scrollSample{dx: dx, dy: dy, dt: dt})
	if len(ii.scrollBuf) > ii.FlingBufferDepth {
		ii.scrollBuf = ii.scrollBuf[len(ii.scrollBuf)-ii.FlingBufferDepth:]
	}
	ii.ProduceGesture(NewScrollGesture(ii.prevTimestamp, now, dx, dy, dx, dy))
}

// tryPinch implements the pinch warm-up gate: require either fast
// separation change or several consecutive consistent-direction frames
// before emitting.
func (ii *ImmediateInterpreter) tryPinch(a, b *FingerState, sep, prevSep float64, now Time, dt Duration) {
	if prevSep == 0 {
		ii.pinchWarm = 1
		return
	}
	dz := sep - prevSep
	speed := math.Abs(dz) / math.Max(dt.Seconds(), 1e-6)

	fast := speed >= ii.PinchFastSpreadMMS
	consistent := ii.pinchActive || ii.pinchWarm > 0

	if !fast && !consistent {
		ii.pinchWarm = 1
		return
	}
	ii.pinchWarm++
	if !fast && ii.pinchWarm < ii.PinchWarmupFrames {
		return
	}
	ii.pinchActive = true
	ii.ProduceGesture(NewPinchGesture(ii.prevTimestamp, now, dz, dz))
}

func (ii *ImmediateInterpreter) classifySwipe(fingers []*FingerState, now Time, dt Duration, four bool) {
	ii.pinchActive = false
	ii.pinchWarm = 0
	ii.scrollActive = false
	ii.scrollBuf = nil

	var sumDX, sumDY float64
	count := 0
	for _, f := range fingers {
		dx, dy, ok := ii.delta(f)
		if !ok {
			continue
		}
		sumDX += dx
		sumDY += dy
		count++
	}
	if count == 0 {
		return
	}
	dx, dy := sumDX/float64(count), sumDY/float64(count)
	if dx == 0 && dy == 0 {
		return
	}
	ii.swipeActive = true
	ii.swipeFour = four
	ii.ProduceGesture(NewSwipeGesture(four, ii.prevTimestamp, now, dx, dy, dx, dy))
}

// regressVelocity computes, per axis, the mean velocity over the
// buffered scroll samples: total displacement divided by their total
// time span. It is not a least-squares fit; every sample counts only
// through these two sums.
func (ii *ImmediateInterpreter) regressVelocity() (vx, vy float64) {
	var sumDX, sumDY, sumDT float64
	for _, s := range ii.scrollBuf {
		sumDX += s.dx
		sumDY += s.dy
		sumDT += s.dt.Seconds()
	}
	if sumDT <= 0 {
		return 0, 0
	}
	return sumDX / sumDT, sumDY / sumDT
}
