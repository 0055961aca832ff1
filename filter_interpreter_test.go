package gestures

import "testing"

// stubInterpreter is a minimal downstream stage used to exercise
// FilterInterpreter's timer-multiplexing arithmetic in
// isolation from any real filter's business logic.
type stubInterpreter struct {
	baseInterpreter
	nextTimeout  Duration
	timerCalls   int
	timerTimeout Duration
}

func newStubInterpreter() *stubInterpreter {
	return &stubInterpreter{baseInterpreter: baseInterpreter{name: "stub"}, nextTimeout: NoDeadline}
}

func (s *stubInterpreter) SyncInterpret(hs *HardwareState, timeout *Duration) { *timeout = s.nextTimeout }
func (s *stubInterpreter) HandleTimer(now Time, timeout *Duration) {
	s.timerCalls++
	*timeout = s.timerTimeout
}

func TestSetNextDeadlineAndReturnTimeout(t *testing.T) {
	f := NewFilterInterpreter("f", nil)

	// Only a downstream deadline: the combined timeout mirrors it.
	out := f.SetNextDeadlineAndReturnTimeout(Time(10), 0, false, Duration(0.5))
	if out != Duration(0.5) {
		t.Fatalf("downstream-only timeout = %v, want 0.5", out)
	}

	// Only a local deadline: the combined timeout mirrors it.
	f2 := NewFilterInterpreter("f2", nil)
	out2 := f2.SetNextDeadlineAndReturnTimeout(Time(10), Time(10.2), true, NoDeadline)
	if diff := out2 - Duration(0.2); diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("local-only timeout = %v, want 0.2", out2)
	}

	// Both set: the combined timeout is the minimum.
	f3 := NewFilterInterpreter("f3", nil)
	out3 := f3.SetNextDeadlineAndReturnTimeout(Time(10), Time(10.3), true, Duration(0.1))
	if diff := out3 - Duration(0.1); diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("min timeout = %v, want 0.1 (downstream should win)", out3)
	}
}

func TestShouldCallNextTimer(t *testing.T) {
	f := NewFilterInterpreter("f", nil)
	f.SetNextDeadlineAndReturnTimeout(Time(0), Time(1.0), true, Duration(0.3)) // downstream due at 0.3, local due at 1.0

	if f.ShouldCallNextTimer(Time(0.1)) {
		t.Fatalf("downstream not due yet at t=0.1")
	}
	if !f.ShouldCallNextTimer(Time(0.3)) {
		t.Fatalf("downstream due at t=0.3")
	}
}

func TestDispatchTimerLocalRunsFirst(t *testing.T) {
	stub := newStubInterpreter()
	stub.timerTimeout = NoDeadline
	f := NewFilterInterpreter("wrap", stub)

	// Both local and downstream are due at t=1: local deadline at 0.5,
	// downstream deadline (via SetNextDeadlineAndReturnTimeout) at 0.5
	// too, set relative to now=0.
	f.SetNextDeadlineAndReturnTimeout(Time(0), Time(0.5), true, Duration(0.5))

	var localRan bool
	out := f.DispatchTimer(Time(1), func(now Time, timeout *Duration) (bool, Duration) {
		localRan = true
		*timeout = NoDeadline
		return true, NoDeadline
	})
	if !localRan {
		t.Fatalf("local handler should have run when its deadline passed")
	}
	if stub.timerCalls != 1 {
		t.Fatalf("downstream HandleTimer calls = %d, want 1", stub.timerCalls)
	}
	if out != NoDeadline {
		t.Fatalf("combined timeout = %v, want NoDeadline", out)
	}
}

func TestDispatchTimerSkipsUnduestage(t *testing.T) {
	stub := newStubInterpreter()
	f := NewFilterInterpreter("wrap", stub)
	// Downstream due far in the future; local not due at all.
	f.SetNextDeadlineAndReturnTimeout(Time(0), 0, false, Duration(10))

	called := false
	f.DispatchTimer(Time(1), func(now Time, timeout *Duration) (bool, Duration) {
		called = true
		return true, NoDeadline
	})
	if called {
		t.Fatalf("local handler should not run before its own deadline")
	}
	if stub.timerCalls != 0 {
		t.Fatalf("downstream should not be called before its deadline: got %d calls", stub.timerCalls)
	}
}

func TestFilterInterpreterClearPropagates(t *testing.T) {
	stub := newStubInterpreter()
	f := NewFilterInterpreter("wrap", stub)
	f.SetNextDeadlineAndReturnTimeout(Time(0), Time(1), true, Duration(1))
	f.Clear()
	if f.hasLocal || f.hasDownstream {
		t.Fatalf("Clear should reset both deadlines")
	}
}

func TestProduceGestureForwardsToConsumer(t *testing.T) {
	var got []Gesture
	b := &baseInterpreter{name: "x"}
	b.Initialize(nil, GestureConsumerFunc(func(g Gesture) { got = append(got, g) }))
	b.ProduceGesture(NewMoveGesture(0, 1, 1, 1, 1, 1))
	b.ProduceGesture(Gesture{}) // Null: must not forward
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 forwarded gesture, got %d", len(got))
	}
}
