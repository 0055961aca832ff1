package gestures

// IntegralGestureFilter accumulates the fractional remainder of
// Move/Scroll deltas across frames and only forwards whole-pixel
// amounts, so a slow mouse doesn't lose motion to repeated
// sub-pixel rounding at the host's integer cursor API.
type IntegralGestureFilter struct {
	FilterInterpreter

	remDX, remDY float64
}

func NewIntegralGestureFilter(next Interpreter) *IntegralGestureFilter {
	return &IntegralGestureFilter{FilterInterpreter: *NewFilterInterpreter("IntegralGestureFilter", next)}
}

func (ig *IntegralGestureFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	ig.InitSelf(hwProps, consumer, ig)
}

func (ig *IntegralGestureFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	var dt Duration = NoDeadline
	if ig.Next() != nil {
		ig.Next().SyncInterpret(hs, &dt)
	}
	*timeout = ig.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (ig *IntegralGestureFilter) ConsumeGesture(g Gesture) {
	switch g.Type {
	case GestureTypeMove, GestureTypeScroll:
		x := g.Move.DX + ig.remDX
		y := g.Move.DY + ig.remDY
		ix := truncTowardZero(x)
		iy := truncTowardZero(y)
		ig.remDX = x - ix
		ig.remDY = y - iy
		g.Move.DX, g.Move.DY = ix, iy
	}
	ig.ProduceGesture(g)
}

func truncTowardZero(v float64) float64 {
	if v < 0 {
		return -float64(int64(-v))
	}
	return float64(int64(v))
}

func (ig *IntegralGestureFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = ig.DispatchTimer(now, nil)
}

func (ig *IntegralGestureFilter) Clear() {
	ig.FilterInterpreter.Clear()
	ig.remDX, ig.remDY = 0, 0
}
