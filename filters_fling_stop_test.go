package gestures

import "testing"

// A new finger landing during an active fling arms the grace deadline;
// the synthetic Fling(TAP_DOWN) fires when that deadline trips, not on
// the touchdown frame itself.
func TestFlingStopArmsDeadlineThenFires(t *testing.T) {
	consumer, out := collect()
	ff := NewFlingStopFilter(nil)
	ff.Initialize(&HardwareProperties{}, consumer)

	ff.ConsumeGesture(NewFlingGesture(0.9, 0.9, 100, 200, FlingStateStart))
	*out = nil

	var timeout Duration
	hs := HardwareState{Timestamp: 1.0, FingerCnt: 1, Fingers: []FingerState{finger(5, 10, 10, 50)}}
	ff.SyncInterpret(&hs, &timeout)

	if len(*out) != 0 {
		t.Fatalf("the touchdown frame itself must not halt the fling, got %+v", *out)
	}
	if diff := timeout - ff.FlingStopTimeout; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected the grace deadline (%v) to be requested, got %v", ff.FlingStopTimeout, timeout)
	}

	ff.HandleTimer(Time(1.0).Add(timeout), &timeout)
	if len(*out) != 1 || (*out)[0].Type != GestureTypeFling || (*out)[0].FlingState != FlingStateTapDown {
		t.Fatalf("expected the deadline to inject Fling(TAP_DOWN), got %+v", *out)
	}
}

// Two new fingers before the deadline fires look like the start of a
// scroll, so the deadline is extended once by FlingStopExtraDelay.
func TestFlingStopExtraDelayForTwoFingers(t *testing.T) {
	consumer, out := collect()
	ff := NewFlingStopFilter(nil)
	ff.Initialize(&HardwareProperties{}, consumer)

	ff.ConsumeGesture(NewFlingGesture(0.9, 0.9, 100, 200, FlingStateStart))
	*out = nil

	var timeout Duration
	one := HardwareState{Timestamp: 1.0, FingerCnt: 1, Fingers: []FingerState{finger(5, 10, 10, 50)}}
	ff.SyncInterpret(&one, &timeout)

	two := HardwareState{Timestamp: 1.01, FingerCnt: 2, Fingers: []FingerState{finger(5, 10, 10, 50), finger(6, 20, 10, 50)}}
	ff.SyncInterpret(&two, &timeout)

	if len(*out) != 0 {
		t.Fatalf("nothing should fire before the extended deadline, got %+v", *out)
	}
	// Armed at 1.0 for 1.03, extended by 0.055 to 1.085; at t=1.01
	// that's 0.075 away.
	want := Duration(1.0) + ff.FlingStopTimeout + ff.FlingStopExtraDelay - Duration(1.01)
	if diff := timeout - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("extended deadline timeout = %v, want %v", timeout, want)
	}

	ff.HandleTimer(Time(1.01).Add(timeout), &timeout)
	if len(*out) != 1 || (*out)[0].FlingState != FlingStateTapDown {
		t.Fatalf("expected Fling(TAP_DOWN) once the extended deadline trips, got %+v", *out)
	}
}

// A frame arriving after the deadline has passed fires the stop
// without waiting for a timer callback.
func TestFlingStopFiresOnLateFrame(t *testing.T) {
	consumer, out := collect()
	ff := NewFlingStopFilter(nil)
	ff.Initialize(&HardwareProperties{}, consumer)

	ff.ConsumeGesture(NewFlingGesture(0.9, 0.9, 100, 200, FlingStateStart))
	*out = nil

	var timeout Duration
	hs := HardwareState{Timestamp: 1.0, FingerCnt: 1, Fingers: []FingerState{finger(5, 10, 10, 50)}}
	ff.SyncInterpret(&hs, &timeout)

	late := HardwareState{Timestamp: 1.2, FingerCnt: 1, Fingers: []FingerState{finger(5, 10, 10, 50)}}
	ff.SyncInterpret(&late, &timeout)

	if len(*out) != 1 || (*out)[0].FlingState != FlingStateTapDown {
		t.Fatalf("a frame past the deadline should fire the stop inline, got %+v", *out)
	}
}

// Without an active fling, touchdowns pass through silently.
func TestFlingStopIdleWithoutFling(t *testing.T) {
	consumer, out := collect()
	ff := NewFlingStopFilter(nil)
	ff.Initialize(&HardwareProperties{}, consumer)

	var timeout Duration
	hs := HardwareState{Timestamp: 1.0, FingerCnt: 1, Fingers: []FingerState{finger(5, 10, 10, 50)}}
	ff.SyncInterpret(&hs, &timeout)

	if len(*out) != 0 {
		t.Fatalf("no gesture expected without an active fling, got %+v", *out)
	}
	if timeout.HasDeadline() {
		t.Fatalf("no deadline should be armed without an active fling, got %v", timeout)
	}
}
