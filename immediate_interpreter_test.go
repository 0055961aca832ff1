package gestures

import "testing"

func collect() (GestureConsumer, *[]Gesture) {
	out := &[]Gesture{}
	return GestureConsumerFunc(func(g Gesture) { *out = append(*out, g) }), out
}

func finger(id int16, x, y, pressure float64) FingerState {
	return FingerState{TrackingID: id, X: x, Y: y, Pressure: pressure}
}

// TestOneFingerMove: axis-aligned single-finger motion produces one
// Move per frame with the matching delta.
func TestOneFingerMove(t *testing.T) {
	metrics := NewFingerMetrics()
	ii := NewImmediateInterpreter(metrics)
	consumer, out := collect()
	ii.Initialize(&HardwareProperties{}, consumer)

	frames := []HardwareState{
		{Timestamp: 0.20, FingerCnt: 1, Fingers: []FingerState{finger(1, 10, 10, 50)}},
		{Timestamp: 0.21, FingerCnt: 1, Fingers: []FingerState{finger(1, 10, 20, 50)}},
		{Timestamp: 0.22, FingerCnt: 1, Fingers: []FingerState{finger(1, 20, 20, 50)}},
	}
	var timeout Duration
	for i := range frames {
		metrics.Update(&frames[i])
		ii.SyncInterpret(&frames[i], &timeout)
	}

	var moves []Gesture
	for _, g := range *out {
		if g.Type == GestureTypeMove {
			moves = append(moves, g)
		}
	}
	if len(moves) != 2 {
		t.Fatalf("expected 2 Move gestures, got %d: %+v", len(moves), *out)
	}
	if moves[0].Move.DX != 0 || moves[0].Move.DY != 10 {
		t.Errorf("first move = %+v, want dx=0 dy=10", moves[0].Move)
	}
	if moves[1].Move.DX != 10 || moves[1].Move.DY != 0 {
		t.Errorf("second move = %+v, want dx=10 dy=0", moves[1].Move)
	}
}

// TestTwoFingerScrollRestingThumb: a thumb resting at the bottom edge
// must not contribute to motion, so the remaining finger's vertical
// move is reported as a plain Move rather than a 2-finger Scroll.
func TestTwoFingerScrollRestingThumb(t *testing.T) {
	metrics := NewFingerMetrics()
	ii := NewImmediateInterpreter(metrics)
	consumer, out := collect()
	hwProps := HardwareProperties{Bottom: 1000}
	ii.Initialize(&hwProps, consumer)

	frames := []HardwareState{
		{Timestamp: 0.20, FingerCnt: 2, Fingers: []FingerState{finger(1, 500, 999, 10), finger(2, 500, 950, 10)}},
		{Timestamp: 0.21, FingerCnt: 2, Fingers: []FingerState{finger(1, 500, 999, 10), finger(2, 500, 940, 10)}},
		{Timestamp: 0.22, FingerCnt: 2, Fingers: []FingerState{finger(1, 500, 999, 10), finger(2, 500, 930, 10)}},
	}
	var timeout Duration
	for i := range frames {
		metrics.Update(&frames[i])
		ii.SyncInterpret(&frames[i], &timeout)
	}

	var moves []Gesture
	for _, g := range *out {
		if g.Type == GestureTypeMove {
			moves = append(moves, g)
		} else if g.Type == GestureTypeScroll {
			t.Fatalf("did not expect a Scroll gesture with a resting thumb present: %+v", g)
		}
	}
	if len(moves) != 2 {
		t.Fatalf("expected 2 Move gestures, got %d: %+v", len(moves), *out)
	}
	for _, m := range moves {
		if m.Move.DX != 0 || m.Move.DY != -10 {
			t.Errorf("move = %+v, want dx=0 dy=-10", m.Move)
		}
	}
}

// TestOneFingerTap: a quick down-up with no travel synthesizes a left
// click once the tap window (50ms from touchdown) has closed by the
// time the host's timer fires.
func TestOneFingerTap(t *testing.T) {
	metrics := NewFingerMetrics()
	ii := NewImmediateInterpreter(metrics)
	consumer, out := collect()
	ii.Initialize(&HardwareProperties{}, consumer)

	var timeout Duration
	down := HardwareState{Timestamp: 0.00, FingerCnt: 1, Fingers: []FingerState{finger(91, 4, 4, 50)}}
	metrics.Update(&down)
	ii.SyncInterpret(&down, &timeout)

	up := HardwareState{Timestamp: 0.01, FingerCnt: 0}
	metrics.Update(&up)
	ii.SyncInterpret(&up, &timeout)

	ii.HandleTimer(Time(0.07), &timeout)

	var taps []Gesture
	for _, g := range *out {
		if g.Type == GestureTypeButtonsChange {
			taps = append(taps, g)
		}
	}
	if len(taps) != 1 {
		t.Fatalf("expected exactly 1 ButtonsChange, got %d: %+v", len(taps), *out)
	}
	tap := taps[0]
	if tap.ButtonsDown != ButtonLeft || tap.ButtonsUp != ButtonLeft || !tap.IsTap {
		t.Fatalf("unexpected tap payload: %+v", tap)
	}
}

// TestTwoFingerTap: two simultaneous contacts tapping produce a right
// click.
func TestTwoFingerTap(t *testing.T) {
	metrics := NewFingerMetrics()
	ii := NewImmediateInterpreter(metrics)
	consumer, out := collect()
	ii.Initialize(&HardwareProperties{}, consumer)

	var timeout Duration
	down := HardwareState{Timestamp: 0.00, FingerCnt: 2, Fingers: []FingerState{finger(97, 4, 1, 50), finger(98, 9, 1, 50)}}
	metrics.Update(&down)
	ii.SyncInterpret(&down, &timeout)

	up := HardwareState{Timestamp: 0.01, FingerCnt: 0}
	metrics.Update(&up)
	ii.SyncInterpret(&up, &timeout)

	ii.HandleTimer(Time(0.07), &timeout)

	var taps []Gesture
	for _, g := range *out {
		if g.Type == GestureTypeButtonsChange {
			taps = append(taps, g)
		}
	}
	if len(taps) != 1 {
		t.Fatalf("expected exactly 1 ButtonsChange, got %d: %+v", len(taps), *out)
	}
	tap := taps[0]
	if tap.ButtonsDown != ButtonRight || tap.ButtonsUp != ButtonRight || !tap.IsTap {
		t.Fatalf("unexpected tap payload: %+v", tap)
	}
}

// TestHardwareButtonCancelsTap exercises: a real
// mechanical button press cancels an in-progress tap without emitting
// one.
func TestHardwareButtonCancelsTap(t *testing.T) {
	metrics := NewFingerMetrics()
	ii := NewImmediateInterpreter(metrics)
	consumer, out := collect()
	ii.Initialize(&HardwareProperties{}, consumer)

	var timeout Duration
	down := HardwareState{Timestamp: 0.00, FingerCnt: 1, Fingers: []FingerState{finger(1, 4, 4, 50)}}
	metrics.Update(&down)
	ii.SyncInterpret(&down, &timeout)

	click := HardwareState{Timestamp: 0.01, FingerCnt: 1, Fingers: []FingerState{finger(1, 4, 4, 50)}, ButtonsDown: ButtonLeft}
	metrics.Update(&click)
	ii.SyncInterpret(&click, &timeout)

	ii.HandleTimer(Time(0.07), &timeout)

	for _, g := range *out {
		if g.Type == GestureTypeButtonsChange && g.IsTap {
			t.Fatalf("a real button press should cancel the tap machine without emitting a tap: %+v", g)
		}
	}
}
