package gestures

import "math"

// IIRFilter applies a first-order IIR filter to position to reduce
// jitter (legacy v1 stack), automatically disengaging for one frame
// after a large jump so fast moves stay responsive.
type IIRFilter struct {
	FilterInterpreter

	Alpha        float64 // smoothing factor, 0..1 (higher = more smoothing)
	JumpThreshold float64

	smoothed map[int16][2]float64
}

func NewIIRFilter(next Interpreter) *IIRFilter {
	return &IIRFilter{
		FilterInterpreter: *NewFilterInterpreter("IirFilter", next),
		Alpha:             0.5,
		JumpThreshold:     8.0,
		smoothed:          make(map[int16][2]float64),
	}
}

func (ii *IIRFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	ii.InitSelf(hwProps, consumer, ii)
}

func (ii *IIRFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	present := make(map[int16]bool, len(hs.Fingers))
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		present[f.TrackingID] = true
		prev, ok := ii.smoothed[f.TrackingID]
		if !ok {
			ii.smoothed[f.TrackingID] = [2]float64{f.X, f.Y}
			continue
		}
		if math.Hypot(f.X-prev[0], f.Y-prev[1]) > ii.JumpThreshold {
			ii.smoothed[f.TrackingID] = [2]float64{f.X, f.Y}
			continue
		}
		sx := ii.Alpha*prev[0] + (1-ii.Alpha)*f.X
		sy := ii.Alpha*prev[1] + (1-ii.Alpha)*f.Y
		ii.smoothed[f.TrackingID] = [2]float64{sx, sy}
		f.X, f.Y = sx, sy
	}
	for id := range ii.smoothed {
		if !present[id] {
			delete(ii.smoothed, id)
		}
	}

	var dt Duration = NoDeadline
	if ii.Next() != nil {
		ii.Next().SyncInterpret(hs, &dt)
	}
	*timeout = ii.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (ii *IIRFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = ii.DispatchTimer(now, nil)
}

func (ii *IIRFilter) Clear() {
	ii.FilterInterpreter.Clear()
	ii.smoothed = make(map[int16][2]float64)
}
