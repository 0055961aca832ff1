package gestures

import "math"

// SensorJumpFilter (legacy v1 stack) flags a frame where a finger's
// position changed implausibly far in a single sample period — a raw
// sensor glitch distinct from the Lookahead-level drumroll/quick-move
// analysis — so downstream stages don't derive a motion delta across
// the jump.
type SensorJumpFilter struct {
	FilterInterpreter

	MaxJumpMM float64

	lastPos map[int16][2]float64
}

func NewSensorJumpFilter(next Interpreter) *SensorJumpFilter {
	return &SensorJumpFilter{
		FilterInterpreter: *NewFilterInterpreter("SensorJumpFilter", next),
		MaxJumpMM:         20,
		lastPos:           make(map[int16][2]float64),
	}
}

func (s *SensorJumpFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	s.InitSelf(hwProps, consumer, s)
}

func (s *SensorJumpFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	cur := make(map[int16][2]float64, len(hs.Fingers))
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		if prev, ok := s.lastPos[f.TrackingID]; ok {
			if math.Hypot(f.X-prev[0], f.Y-prev[1]) > s.MaxJumpMM {
				f.Flags |= WarpX | WarpY
			}
		}
		cur[f.TrackingID] = [2]float64{f.X, f.Y}
	}
	s.lastPos = cur

	var dt Duration = NoDeadline
	if s.Next() != nil {
		s.Next().SyncInterpret(hs, &dt)
	}
	*timeout = s.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (s *SensorJumpFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = s.DispatchTimer(now, nil)
}

func (s *SensorJumpFilter) Clear() {
	s.FilterInterpreter.Clear()
	s.lastPos = make(map[int16][2]float64)
}
