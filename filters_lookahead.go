package gestures

import "math"

// qState is one queued frame: a deep copy of the incoming HardwareState
// (with tracking ids already rewritten by AssignTrackingIds) plus the
// absolute time it is due to flush downstream.
type qState struct {
	hs        HardwareState
	due       Time
	flushed   bool
}

// lookaheadSample is the last-seen position of one input (pre-rewrite)
// tracking id, used by AssignTrackingIds to classify quick-moves and
// drumrolls.
type lookaheadSample struct {
	x, y     float64
	pressure float64
	t        Time
}

// minDelayClamp is the hard ceiling on MinDelay: however a host tunes
// the input queue, no frame is ever held back longer than this.
const minDelayClamp Duration = 0.09

// LookaheadFilter delays every frame by a small tunable amount so that
// drumroll and quick-move corrections, and tap-down prediction, can
// look at what came shortly after a contact first appears. It is the only filter that rewrites tracking ids.
type LookaheadFilter struct {
	FilterInterpreter

	// MinDelay is the base per-frame delay, clamped to minDelayClamp.
	// MaxDelay bounds the extra deadline granted when a contact
	// separates, appears, or starts lifting off:
	// ExtraVariableDelay = max(0, MaxDelay - MinDelay).
	MinDelay                 Duration
	MaxDelay                 Duration
	QuickMoveThreshMM        float64
	DrumrollSpeedThreshMMS   float64
	DrumrollMaxSpeedRatio    float64
	CoMoveRatio              float64
	SplitMinPeriod           Duration
	SuppressImmediateTapdown bool
	MinNonsuppressSpeedMMS   float64

	queue  []*qState
	lastID int16

	// prevSamples holds, per input tracking id, the last two raw
	// samples seen (index 0 = most recent), used to classify the
	// continuing contact's motion.
	prevSamples map[int16][2]lookaheadSample
	prevCount   map[int16]int

	// idMap remembers the output id a continuing input id currently
	// maps to, so a drumroll split is visible to the next frame too.
	idMap map[int16]int16
}

func NewLookaheadFilter(next Interpreter) *LookaheadFilter {
	return &LookaheadFilter{
		FilterInterpreter:        *NewFilterInterpreter("LookaheadFilter", next),
		MinDelay:                 0,
		MaxDelay:                 0.017,
		QuickMoveThreshMM:        3,
		DrumrollSpeedThreshMMS:   400,
		DrumrollMaxSpeedRatio:    15,
		CoMoveRatio:              1.2,
		SplitMinPeriod:           0.021,
		SuppressImmediateTapdown: true,
		MinNonsuppressSpeedMMS:   200,
		prevSamples:              make(map[int16][2]lookaheadSample),
		prevCount:                make(map[int16]int),
		idMap:                    make(map[int16]int16),
	}
}

// minDelay returns MinDelay bounded by the hard clamp.
func (l *LookaheadFilter) minDelay() Duration {
	if l.MinDelay > minDelayClamp {
		return minDelayClamp
	}
	return l.MinDelay
}

// extraVariableDelay is the additional deadline granted to frames that
// deserve downstream reconsideration.
func (l *LookaheadFilter) extraVariableDelay() Duration {
	return maxDuration(0, l.MaxDelay-l.minDelay())
}

func (l *LookaheadFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	l.InitSelf(hwProps, consumer, l)
}

func (l *LookaheadFilter) nextID() int16 {
	l.lastID++
	return l.lastID
}

// assignTrackingIds rewrites hs.Fingers' TrackingIDs in place. It is
// skipped for semi-mt and haptic pads, whose tracking ids are already
// stable. The return value reports whether any contact was drumroll-
// split this frame, which earns the queue entry extra delay.
func (l *LookaheadFilter) assignTrackingIds(hs *HardwareState) (split bool) {
	if l.hwProps != nil && (l.hwProps.SemiMT || l.hwProps.HapticPad) {
		return false
	}

	present := make(map[int16]bool, len(hs.Fingers))
	splitting := 0
	maxOtherSpeed := 0.0
	inputIDs := make([]int16, len(hs.Fingers))
	splitFrom := make(map[int16]int16)

	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		in := f.TrackingID
		inputIDs[i] = in
		present[in] = true

		out, continuing := l.idMap[in]
		if !continuing {
			out = l.nextID()
			l.idMap[in] = out
			f.TrackingID = out
			l.pushSample(in, f, hs.Timestamp)
			continue
		}

		prev, have2 := l.prevSamples[in]
		n := l.prevCount[in]
		f.TrackingID = out

		if n >= 1 {
			dt := hs.Timestamp.Sub(prev[0].t)
			dx, dy := f.X-prev[0].x, f.Y-prev[0].y
			dist2 := dx*dx + dy*dy

			quickMove := false
			if n >= 2 && have2 {
				pdx, pdy := prev[0].x-prev[1].x, prev[0].y-prev[1].y
				quickMove = sameSignLarge(pdx, dx, l.QuickMoveThreshMM) ||
					sameSignLarge(pdy, dy, l.QuickMoveThreshMM)
			}

			if quickMove {
				// Undo any earlier drumroll rewrite: keep the id.
			} else if dt > 0 {
				speed := math.Sqrt(dist2) / dt.Seconds()
				thresh := l.DrumrollSpeedThreshMMS * dt.Seconds()
				reversed := false
				ratio := 0.0
				if n >= 2 && have2 {
					reversed = (prev[0].x-prev[1].x)*dx < 0 ||
						(prev[0].y-prev[1].y)*dy < 0
					pdt := prev[0].t.Sub(prev[1].t)
					if pdt > 0 {
						pspeed := math.Hypot(prev[0].x-prev[1].x, prev[0].y-prev[1].y) / pdt.Seconds()
						if pspeed > 0 {
							ratio = speed / pspeed
						}
					}
				}
				if dist2 > thresh*thresh && (reversed || ratio > l.DrumrollMaxSpeedRatio) {
					splitFrom[in] = out
					newOut := l.nextID()
					l.idMap[in] = newOut
					f.TrackingID = newOut
					f.Flags |= NoTap
					l.markPreviousNoTap(in, out)
					splitting++
				}
			}
			if _, didSplit := splitFrom[in]; !didSplit && dt > 0 {
				if speed := math.Sqrt(dist2) / dt.Seconds(); speed > maxOtherSpeed {
					maxOtherSpeed = speed
				}
			}
		}

		l.pushSample(in, f, hs.Timestamp)
	}

	for id := range l.idMap {
		if !present[id] {
			delete(l.idMap, id)
			delete(l.prevSamples, id)
			delete(l.prevCount, id)
		}
	}

	// Abort heuristic: two simultaneous splits, or a split alongside a
	// fast-moving other finger, looks like a swipe rather than a
	// drumroll. Undo the reassignments: restore each split contact's
	// previous output id and clear the NoTap it just gained.
	if splitting >= 2 || (splitting == 1 && maxOtherSpeed >= l.CoMoveRatio*l.DrumrollSpeedThreshMMS) {
		for i := range hs.Fingers {
			f := &hs.Fingers[i]
			in := inputIDs[i]
			if prevOut, wasSplit := splitFrom[in]; wasSplit {
				l.idMap[in] = prevOut
				f.TrackingID = prevOut
				f.Flags &^= NoTap
			}
		}
		return false
	}
	return splitting > 0
}

func sameSignLarge(prevDelta, curDelta, thresh float64) bool {
	if math.Abs(prevDelta) < thresh || math.Abs(curDelta) < thresh {
		return false
	}
	return (prevDelta > 0) == (curDelta > 0)
}

func (l *LookaheadFilter) pushSample(id int16, f *FingerState, t Time) {
	cur := l.prevSamples[id]
	cur[1] = cur[0]
	cur[0] = lookaheadSample{x: f.X, y: f.Y, pressure: f.Pressure, t: t}
	l.prevSamples[id] = cur
	l.prevCount[id]++
}

// markPreviousNoTap sets NoTap on the most recent still-unflushed queue
// entry's finger carrying the output id the split contact had before
// the rewrite, if any.
func (l *LookaheadFilter) markPreviousNoTap(inputID, prevOut int16) bool {
	for i := len(l.queue) - 1; i >= 0; i-- {
		if l.queue[i].flushed {
			continue
		}
		if f := l.queue[i].hs.FingerByID(prevOut); f != nil {
			f.Flags |= NoTap
			return true
		}
	}
	return false
}

// attemptInterpolation synthesizes a midpoint frame when the gap since
// the previous queued frame exceeds SplitMinPeriod and the finger set
// is unchanged.
func (l *LookaheadFilter) attemptInterpolation(hs *HardwareState) {
	if len(l.queue) == 0 {
		return
	}
	prev := l.queue[len(l.queue)-1]
	gap := hs.Timestamp.Sub(prev.hs.Timestamp)
	if gap <= l.SplitMinPeriod || len(prev.hs.Fingers) != len(hs.Fingers) {
		return
	}
	for _, pf := range prev.hs.Fingers {
		if hs.FingerByID(pf.TrackingID) == nil {
			return
		}
	}

	mid := prev.hs.DeepCopy()
	mid.Timestamp = prev.hs.Timestamp.Add(gap / 2)
	for i := range mid.Fingers {
		cf := hs.FingerByID(mid.Fingers[i].TrackingID)
		mid.Fingers[i].X = (mid.Fingers[i].X + cf.X) / 2
		mid.Fingers[i].Y = (mid.Fingers[i].Y + cf.Y) / 2
	}
	l.queue = append(l.queue, &qState{hs: mid, due: mid.Timestamp.Add(l.minDelay())})
}

func (l *LookaheadFilter) flush(now Time) {
	for _, front := range l.queue {
		if !front.flushed {
			if front.due > now {
				break
			}
			hs := front.hs
			var dt Duration = NoDeadline
			if l.Next() != nil {
				l.Next().SyncInterpret(&hs, &dt)
				// The downstream deadline moves with every flushed
				// frame; track the absolute instant here so the
				// combined timeout returned to the host stays correct
				// even though the flush happens out of band with the
				// host's own SyncInterpret call.
				l.hasDownstream = dt.HasDeadline()
				if l.hasDownstream {
					l.downstreamDeadline = hs.Timestamp.Add(dt)
				}
			}
			front.hs = hs
			front.flushed = true
		}
	}
	// Keep up to one extra completed entry as classification
	// history; drop older completed entries.
	for len(l.queue) > 0 && l.queue[0].flushed {
		completed := 0
		for _, q := range l.queue {
			if q.flushed {
				completed++
			}
		}
		if completed <= 2 {
			break
		}
		l.queue = l.queue[1:]
	}
}

func (l *LookaheadFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	if len(l.queue) > 0 {
		last := l.queue[len(l.queue)-1].hs.Timestamp
		if hs.Timestamp.Sub(last) < 0 && last.Sub(hs.Timestamp) > l.extraVariableDelay() {
			l.flush(last.Add(1))
			l.queue = nil
			l.idMap = make(map[int16]int16)
			l.prevSamples = make(map[int16][2]lookaheadSample)
			l.prevCount = make(map[int16]int)
		}
	}

	cp := hs.DeepCopy()

	newFingers := 0
	liftoff := false
	for _, f := range cp.Fingers {
		if _, ok := l.idMap[f.TrackingID]; !ok {
			newFingers++
			continue
		}
		if l.liftoffJumpStarting(&f, hs.Timestamp) {
			liftoff = true
		}
	}

	split := l.assignTrackingIds(&cp)
	l.attemptInterpolation(&cp)

	// A separated contact, a new contact, or a liftoff-like pressure
	// drop with a speed spike all earn downstream the extra delay
	// window to reconsider this frame.
	extra := Duration(0)
	if newFingers > 0 || split || liftoff {
		extra = l.extraVariableDelay()
	}

	entry := &qState{hs: cp, due: hs.Timestamp.Add(l.minDelay() + extra)}
	l.queue = append(l.queue, entry)

	if newFingers > 0 && !l.SuppressImmediateTapdown {
		l.ProduceGesture(NewFlingGesture(hs.Timestamp, hs.Timestamp, 0, 0, FlingStateTapDown))
	}

	l.flush(hs.Timestamp)

	var localDeadline Time
	haveLocal := false
	if len(l.queue) > 0 {
		for _, q := range l.queue {
			if !q.flushed {
				localDeadline = q.due
				haveLocal = true
				break
			}
		}
	}
	ds := NoDeadline
	if l.hasDownstream {
		ds = l.downstreamDeadline.Sub(hs.Timestamp)
	}
	*timeout = l.SetNextDeadlineAndReturnTimeout(hs.Timestamp, localDeadline, haveLocal, ds)
}

// liftoffJumpStarting reports whether f's pressure collapsed while its
// position jumped, the signature of a finger peeling off the pad.
func (l *LookaheadFilter) liftoffJumpStarting(f *FingerState, now Time) bool {
	if l.prevCount[f.TrackingID] < 1 {
		return false
	}
	prev := l.prevSamples[f.TrackingID][0]
	dt := now.Sub(prev.t)
	if dt <= 0 || prev.pressure <= 0 {
		return false
	}
	if f.Pressure >= prev.pressure*0.75 {
		return false
	}
	speed := math.Hypot(f.X-prev.x, f.Y-prev.y) / dt.Seconds()
	return speed >= l.DrumrollSpeedThreshMMS
}

func maxDuration(a, b Duration) Duration {
	if a > b {
		return a
	}
	return b
}

func (l *LookaheadFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = l.DispatchTimer(now, func(now Time, out *Duration) (bool, Duration) {
		l.flush(now)
		var localDeadline Time
		haveLocal := false
		for _, q := range l.queue {
			if !q.flushed {
				localDeadline = q.due
				haveLocal = true
				break
			}
		}
		if !haveLocal {
			return true, NoDeadline
		}
		return true, MinDuration(NoDeadline, localDeadline.Sub(now))
	})
}

// ConsumeGesture performs slow-move suppression: a Move/Scroll whose implied speed is below
// MinNonsuppressSpeedMMS is dropped if the queue shows the finger set
// or buttons-down changing, since that tail is almost always the user
// lifting off rather than continuing to gesture.
func (l *LookaheadFilter) ConsumeGesture(g Gesture) {
	if g.Type == GestureTypeMove || g.Type == GestureTypeScroll {
		dt := g.EndTime.Sub(g.StartTime)
		if dt > 0 {
			speed := math.Hypot(g.Move.DX, g.Move.DY) / dt.Seconds()
			if speed < l.MinNonsuppressSpeedMMS && l.queueSetChanging() {
				return
			}
		}
	}
	l.ProduceGesture(g)
}

func (l *LookaheadFilter) queueSetChanging() bool {
	if len(l.queue) < 2 {
		return false
	}
	first := l.queue[0].hs
	for _, q := range l.queue[1:] {
		if len(q.hs.Fingers) != len(first.Fingers) || q.hs.ButtonsDown != first.ButtonsDown {
			return true
		}
	}
	return false
}

func (l *LookaheadFilter) Clear() {
	l.FilterInterpreter.Clear()
	l.queue = nil
	l.lastID = 0
	l.prevSamples = make(map[int16][2]lookaheadSample)
	l.prevCount = make(map[int16]int)
	l.idMap = make(map[int16]int16)
}
