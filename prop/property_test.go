package prop

import "testing"

func TestPropertyWriteRejectsKindMismatch(t *testing.T) {
	p := NewProperty("x", BoolValue(true))
	if p.Write(IntValue(5)) {
		t.Fatalf("write of mismatched kind should be rejected")
	}
	if p.Value().Bool != true {
		t.Fatalf("rejected write must not change the old value")
	}
}

func TestPropertyWriteAcceptsSameKind(t *testing.T) {
	p := NewProperty("x", IntValue(1))
	if !p.Write(IntValue(2)) {
		t.Fatalf("same-kind write should be accepted")
	}
	if p.Value().Int != 2 {
		t.Fatalf("value = %d, want 2", p.Value().Int)
	}
}

type recordingDelegate struct{ notified int }

func (d *recordingDelegate) PropertyChanged() { d.notified++ }

func TestPropertyDelegateNotifiedAfterConstruction(t *testing.T) {
	p := NewProperty("x", DoubleValue(1.0))
	d := &recordingDelegate{}
	// The delegate is attached only after p (and its owner) are fully
	// constructed, never passed into NewProperty itself.
	p.SetDelegate(d)
	p.Write(DoubleValue(2.0))
	if d.notified != 1 {
		t.Fatalf("delegate notified %d times, want 1", d.notified)
	}
}

func TestPropertyWriteCallbackCanReject(t *testing.T) {
	p := NewProperty("x", IntValue(1))
	p.SetWriteCallback(func(v Value) bool { return v.Int >= 0 })
	if p.Write(IntValue(-1)) {
		t.Fatalf("write callback should have rejected a negative value")
	}
	if p.Value().Int != 1 {
		t.Fatalf("rejected write must keep the old value")
	}
	if !p.Write(IntValue(5)) {
		t.Fatalf("write callback should accept a valid value")
	}
}
