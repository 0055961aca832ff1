package gestures

// SplitCorrectingFilter (legacy v1 stack) detects, on a semi-mt
// sensor, a contact whose position jumps by more than MaxPlausibleJump
// from its previous frame and sets WarpTeleportation on it. It does
// not merge contacts and does not rewrite tracking ids.
type SplitCorrectingFilter struct {
	FilterInterpreter

	MaxPlausibleJump float64 // mm

	lastPositions map[int16][2]float64
}

func NewSplitCorrectingFilter(next Interpreter) *SplitCorrectingFilter {
	return &SplitCorrectingFilter{
		FilterInterpreter: *NewFilterInterpreter("SplitCorrectingFilter", next),
		MaxPlausibleJump:  30,
		lastPositions:     make(map[int16][2]float64),
	}
}

func (s *SplitCorrectingFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	s.InitSelf(hwProps, consumer, s)
}

func (s *SplitCorrectingFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	if s.hwProps.SemiMT {
		for i := range hs.Fingers {
			f := &hs.Fingers[i]
			if prev, ok := s.lastPositions[f.TrackingID]; ok {
				dx, dy := f.X-prev[0], f.Y-prev[1]
				if dx*dx+dy*dy > s.MaxPlausibleJump*s.MaxPlausibleJump {
					f.Flags |= WarpTeleportation
				}
			}
		}
	}
	cur := make(map[int16][2]float64, len(hs.Fingers))
	for _, f := range hs.Fingers {
		cur[f.TrackingID] = [2]float64{f.X, f.Y}
	}
	s.lastPositions = cur

	var dt Duration = NoDeadline
	if s.Next() != nil {
		s.Next().SyncInterpret(hs, &dt)
	}
	*timeout = s.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (s *SplitCorrectingFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = s.DispatchTimer(now, nil)
}

func (s *SplitCorrectingFilter) Clear() {
	s.FilterInterpreter.Clear()
	s.lastPositions = make(map[int16][2]float64)
}
