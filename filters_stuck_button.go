package gestures

// StuckButtonInhibitorFilter guards against a downstream stage that
// emitted a button-down but then, for whatever reason, never emits the
// matching button-up (e.g. a dropped liftoff frame). If no finger is
// on the pad and a button is believed down, it schedules a 1s fallback
// timer that synthesizes the missing button-up.
type StuckButtonInhibitorFilter struct {
	FilterInterpreter

	FallbackDelay Duration

	down        ButtonFlags
	haveFired   bool
	fingerCount int
}

func NewStuckButtonInhibitorFilter(next Interpreter) *StuckButtonInhibitorFilter {
	return &StuckButtonInhibitorFilter{
		FilterInterpreter: *NewFilterInterpreter("StuckButtonInhibitorFilter", next),
		FallbackDelay:     1.0,
	}
}

func (s *StuckButtonInhibitorFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	s.InitSelf(hwProps, consumer, s)
}

func (s *StuckButtonInhibitorFilter) ConsumeGesture(g Gesture) {
	if g.Type == GestureTypeButtonsChange {
		s.down = (s.down | g.ButtonsDown) &^ g.ButtonsUp
	}
	s.ProduceGesture(g)
}

func (s *StuckButtonInhibitorFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	s.fingerCount = hs.FingerCnt

	var dt Duration = NoDeadline
	if s.Next() != nil {
		s.Next().SyncInterpret(hs, &dt)
	}

	var localDeadline Time
	haveLocal := false
	if s.down != 0 && s.fingerCount == 0 {
		localDeadline = hs.Timestamp.Add(s.FallbackDelay)
		haveLocal = true
	}
	*timeout = s.SetNextDeadlineAndReturnTimeout(hs.Timestamp, localDeadline, haveLocal, dt)
}

func (s *StuckButtonInhibitorFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = s.DispatchTimer(now, func(now Time, localOut *Duration) (bool, Duration) {
		if s.down != 0 && s.fingerCount == 0 {
			up := s.down
			s.down = 0
			s.ProduceGesture(NewButtonsChangeGesture(now, now, 0, up, false))
		}
		return true, NoDeadline
	})
}

func (s *StuckButtonInhibitorFilter) Clear() {
	s.FilterInterpreter.Clear()
	s.down, s.fingerCount = 0, 0
}
