package gestures

import "testing"

// A button-down with no finger on the pad arms a fallback timer that
// synthesizes the missing button-up.
func TestStuckButtonFallbackRelease(t *testing.T) {
	consumer, out := collect()
	sf := NewStuckButtonInhibitorFilter(nil)
	sf.Initialize(&HardwareProperties{}, consumer)

	sf.ConsumeGesture(NewButtonsChangeGesture(0, 0, ButtonLeft, 0, false))

	var timeout Duration
	empty := HardwareState{Timestamp: 1.0}
	sf.SyncInterpret(&empty, &timeout)
	if timeout != Duration(1.0) {
		t.Fatalf("expected the 1s fallback timer to be requested, got %v", timeout)
	}

	sf.HandleTimer(2.0, &timeout)

	var release *Gesture
	for i := range *out {
		g := &(*out)[i]
		if g.Type == GestureTypeButtonsChange && g.ButtonsUp == ButtonLeft && g.ButtonsDown == 0 {
			release = g
		}
	}
	if release == nil {
		t.Fatalf("expected a synthesized button-up, got %+v", *out)
	}
}

// A matching button-up before the deadline disarms the fallback.
func TestStuckButtonDisarmedByRealRelease(t *testing.T) {
	consumer, out := collect()
	sf := NewStuckButtonInhibitorFilter(nil)
	sf.Initialize(&HardwareProperties{}, consumer)

	sf.ConsumeGesture(NewButtonsChangeGesture(0, 0, ButtonLeft, 0, false))
	sf.ConsumeGesture(NewButtonsChangeGesture(0, 0, 0, ButtonLeft, false))

	var timeout Duration
	empty := HardwareState{Timestamp: 1.0}
	sf.SyncInterpret(&empty, &timeout)
	if timeout.HasDeadline() {
		t.Fatalf("no fallback timer should be armed once the button was properly released, got %v", timeout)
	}
	if len(*out) != 2 {
		t.Fatalf("both real button gestures should pass through, got %d", len(*out))
	}
}
