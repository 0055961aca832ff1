package gestures

import "testing"

// TestMouseWheelTick: a mouse frame with rel_wheel = -1 on a
// low-resolution wheel produces a MouseWheel gesture with
// tick_120ths_dy = -120, in the "natural" sign convention (before any
// invert-scroll toggle further up the chain).
func TestMouseWheelTick(t *testing.T) {
	hwProps := HardwareProperties{HasWheel: true, WheelIsHighResolution: false}
	var produced []Gesture
	mi := NewMouseInterpreter()
	mi.Initialize(&hwProps, GestureConsumerFunc(func(g Gesture) { produced = append(produced, g) }))

	hs := &HardwareState{Timestamp: 1, RelWheel: -1}
	var timeout Duration
	mi.SyncInterpret(hs, &timeout)

	var wheel *Gesture
	for i := range produced {
		if produced[i].Type == GestureTypeMouseWheel {
			wheel = &produced[i]
		}
	}
	if wheel == nil {
		t.Fatalf("expected a MouseWheel gesture, got %+v", produced)
	}
	if wheel.TickDY120 != -120 {
		t.Fatalf("tick_120ths_dy = %d, want -120", wheel.TickDY120)
	}
	if wheel.TickDX120 != 0 {
		t.Fatalf("tick_120ths_dx = %d, want 0", wheel.TickDX120)
	}
}

func TestMouseWheelHighResolution(t *testing.T) {
	hwProps := HardwareProperties{HasWheel: true, WheelIsHighResolution: true}
	var produced []Gesture
	mi := NewMouseInterpreter()
	mi.Initialize(&hwProps, GestureConsumerFunc(func(g Gesture) { produced = append(produced, g) }))

	hs := &HardwareState{Timestamp: 1, RelWheelHiRes: -40}
	var timeout Duration
	mi.SyncInterpret(hs, &timeout)

	if len(produced) != 1 || produced[0].Type != GestureTypeMouseWheel {
		t.Fatalf("expected exactly one MouseWheel gesture, got %+v", produced)
	}
	if produced[0].TickDY120 != -40 {
		t.Fatalf("hi-res tick_120ths_dy = %d, want -40 (already in 120ths)", produced[0].TickDY120)
	}
}

func TestMouseMoveGesture(t *testing.T) {
	hwProps := HardwareProperties{}
	var produced []Gesture
	mi := NewMouseInterpreter()
	mi.Initialize(&hwProps, GestureConsumerFunc(func(g Gesture) { produced = append(produced, g) }))

	hs := &HardwareState{Timestamp: 1, RelX: 3, RelY: -2}
	var timeout Duration
	mi.SyncInterpret(hs, &timeout)

	if len(produced) != 1 || produced[0].Type != GestureTypeMove {
		t.Fatalf("expected a single Move gesture, got %+v", produced)
	}
	if produced[0].Move.DX != 3 || produced[0].Move.DY != -2 {
		t.Fatalf("unexpected move payload: %+v", produced[0].Move)
	}
}

func TestMouseButtonsChange(t *testing.T) {
	var produced []Gesture
	mi := NewMouseInterpreter()
	mi.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(g Gesture) { produced = append(produced, g) }))

	var timeout Duration
	mi.SyncInterpret(&HardwareState{Timestamp: 0}, &timeout)
	produced = nil

	mi.SyncInterpret(&HardwareState{Timestamp: 1, ButtonsDown: ButtonLeft}, &timeout)
	if len(produced) != 1 || produced[0].Type != GestureTypeButtonsChange {
		t.Fatalf("expected ButtonsChange, got %+v", produced)
	}
	if produced[0].ButtonsDown != ButtonLeft || produced[0].ButtonsUp != 0 {
		t.Fatalf("unexpected buttons payload: %+v", produced[0])
	}

	produced = nil
	mi.SyncInterpret(&HardwareState{Timestamp: 2}, &timeout)
	if len(produced) != 1 || produced[0].ButtonsUp != ButtonLeft {
		t.Fatalf("expected button-up on release, got %+v", produced)
	}
}
