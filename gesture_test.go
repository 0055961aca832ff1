package gestures

import "testing"

func TestNullGesture(t *testing.T) {
	var g Gesture
	if !g.NullGesture() {
		t.Fatalf("zero-value Gesture should be Null")
	}
	g = NewMoveGesture(0, 1, 1, 2, 1, 2)
	if g.NullGesture() {
		t.Fatalf("Move gesture should not be Null")
	}
}

func TestGestureTypeString(t *testing.T) {
	if GestureTypeScroll.String() != "Scroll" {
		t.Errorf("GestureTypeScroll.String() = %q", GestureTypeScroll.String())
	}
	if GestureType(999).String() != "Unknown" {
		t.Errorf("unknown type should stringify as Unknown")
	}
}

func TestNewButtonsChangeGesture(t *testing.T) {
	g := NewButtonsChangeGesture(0, 0, ButtonLeft, ButtonLeft, true)
	if g.Type != GestureTypeButtonsChange {
		t.Fatalf("wrong type: %v", g.Type)
	}
	if g.ButtonsDown != ButtonLeft || g.ButtonsUp != ButtonLeft || !g.IsTap {
		t.Fatalf("unexpected payload: %+v", g)
	}
}

func TestNewSwipeLiftGesture(t *testing.T) {
	g3 := NewSwipeLiftGesture(false, 0, 1)
	if g3.Type != GestureTypeSwipeLift {
		t.Errorf("3-finger lift should be SwipeLift, got %v", g3.Type)
	}
	g4 := NewSwipeLiftGesture(true, 0, 1)
	if g4.Type != GestureTypeFourFingerSwipeLift {
		t.Errorf("4-finger lift should be FourFingerSwipeLift, got %v", g4.Type)
	}
}
