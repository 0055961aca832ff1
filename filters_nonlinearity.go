package gestures

// NonLinearityFilter compensates for a sensor's non-linear position
// response near the pad edges (legacy v1 touchpad stack and the
// multitouch-mouse stack). It
// applies a piecewise-linear correction curve per axis, keyed by
// property arrays the host can tune per device.
type NonLinearityFilter struct {
	FilterInterpreter

	// XControlPoints/YControlPoints are (reported, corrected) pairs,
	// sorted by reported position; SensorJump-adjacent devices ship a
	// handful of calibration points from the driver.
	XControlPoints [][2]float64
	YControlPoints [][2]float64
}

func NewNonLinearityFilter(next Interpreter) *NonLinearityFilter {
	return &NonLinearityFilter{FilterInterpreter: *NewFilterInterpreter("NonLinearityFilter", next)}
}

func (n *NonLinearityFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	n.InitSelf(hwProps, consumer, n)
}

func correctAxis(points [][2]float64, v float64) float64 {
	if len(points) < 2 {
		return v
	}
	if v <= points[0][0] {
		return points[0][1]
	}
	last := points[len(points)-1]
	if v >= last[0] {
		return last[1]
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if v >= a[0] && v <= b[0] {
			frac := (v - a[0]) / (b[0] - a[0])
			return a[1] + frac*(b[1]-a[1])
		}
	}
	return v
}

func (n *NonLinearityFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		f.X = correctAxis(n.XControlPoints, f.X)
		f.Y = correctAxis(n.YControlPoints, f.Y)
	}
	var dt Duration = NoDeadline
	if n.Next() != nil {
		n.Next().SyncInterpret(hs, &dt)
	}
	*timeout = n.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (n *NonLinearityFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = n.DispatchTimer(now, nil)
}
