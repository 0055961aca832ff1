package gestures

import "math"

// AccelCurvePoint is one (speed mm/s, gain) sample of the piecewise
// -linear acceleration curve.
type AccelCurvePoint struct {
	Speed float64
	Gain  float64
}

// AccelFilter applies a speed-dependent gain to Move/Scroll/Fling
// deltas: faster motion gets proportionally more gain, within the
// curve's bounds.
type AccelFilter struct {
	FilterInterpreter

	MoveCurve   []AccelCurvePoint
	ScrollCurve []AccelCurvePoint

	lastTime Time
	haveLast bool

	log interface{ LogAccelDebug(a, b float64) }
}

func defaultAccelCurve() []AccelCurvePoint {
	return []AccelCurvePoint{
		{Speed: 0, Gain: 1.0},
		{Speed: 32, Gain: 1.0},
		{Speed: 150, Gain: 1.6},
		{Speed: 500, Gain: 2.8},
	}
}

func NewAccelFilter(next Interpreter) *AccelFilter {
	return &AccelFilter{
		FilterInterpreter: *NewFilterInterpreter("AccelFilter", next),
		MoveCurve:         defaultAccelCurve(),
		ScrollCurve:       defaultAccelCurve(),
	}
}

func (a *AccelFilter) SetLog(log interface{ LogAccelDebug(a, b float64) }) { a.log = log }

func (a *AccelFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	a.InitSelf(hwProps, consumer, a)
}

func gainForSpeed(curve []AccelCurvePoint, speed float64) float64 {
	if len(curve) == 0 {
		return 1
	}
	if speed <= curve[0].Speed {
		return curve[0].Gain
	}
	last := curve[len(curve)-1]
	if speed >= last.Speed {
		return last.Gain
	}
	for i := 0; i < len(curve)-1; i++ {
		a, b := curve[i], curve[i+1]
		if speed >= a.Speed && speed <= b.Speed {
			frac := (speed - a.Speed) / (b.Speed - a.Speed)
			return a.Gain + frac*(b.Gain-a.Gain)
		}
	}
	return last.Gain
}

func (a *AccelFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	var dt Duration = NoDeadline
	if a.Next() != nil {
		a.Next().SyncInterpret(hs, &dt)
	}
	*timeout = a.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (a *AccelFilter) ConsumeGesture(g Gesture) {
	dt := g.EndTime.Sub(g.StartTime)
	if dt <= 0 {
		dt = 1.0 / 100
	}
	switch g.Type {
	case GestureTypeMove:
		speed := math.Hypot(g.Move.DX, g.Move.DY) / dt.Seconds()
		gain := gainForSpeed(a.MoveCurve, speed)
		g.Move.DX *= gain
		g.Move.DY *= gain
		if a.log != nil {
			a.log.LogAccelDebug(speed, gain)
		}
	case GestureTypeScroll, GestureTypeFling:
		speed := math.Hypot(g.Move.DX, g.Move.DY) / dt.Seconds()
		gain := gainForSpeed(a.ScrollCurve, speed)
		g.Move.DX *= gain
		g.Move.DY *= gain
		if a.log != nil {
			a.log.LogAccelDebug(speed, gain)
		}
	}
	a.ProduceGesture(g)
}

func (a *AccelFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = a.DispatchTimer(now, nil)
}
