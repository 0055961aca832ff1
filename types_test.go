package gestures

import "testing"

func TestFingerFlagsHas(t *testing.T) {
	f := WarpX | NoTap
	if !f.Has(WarpX) {
		t.Errorf("expected WarpX set")
	}
	if !f.Has(NoTap) {
		t.Errorf("expected NoTap set")
	}
	if f.Has(WarpY) {
		t.Errorf("did not expect WarpY set")
	}
}

func TestHardwareStateDeepCopy(t *testing.T) {
	hs := HardwareState{
		Timestamp: 1,
		FingerCnt: 1,
		Fingers:   []FingerState{{TrackingID: 1, X: 5, Y: 5}},
	}
	cp := hs.DeepCopy()
	cp.Fingers[0].X = 99
	if hs.Fingers[0].X != 5 {
		t.Fatalf("DeepCopy aliased the original slice: got %v", hs.Fingers[0].X)
	}
	if cp.Fingers[0].X != 99 {
		t.Fatalf("copy not mutated as expected")
	}
}

func TestFingerByID(t *testing.T) {
	hs := HardwareState{Fingers: []FingerState{{TrackingID: 3, X: 1}, {TrackingID: 7, X: 2}}}
	f := hs.FingerByID(7)
	if f == nil || f.X != 2 {
		t.Fatalf("FingerByID(7) = %v, want X=2", f)
	}
	if hs.FingerByID(9) != nil {
		t.Fatalf("FingerByID(9) should be nil")
	}
}
