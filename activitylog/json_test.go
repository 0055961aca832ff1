package activitylog

import (
	"testing"

	"github.com/8ff/gestures"
	"github.com/8ff/gestures/prop"
)

// TestEncodeDecodeRoundTrip: parsing an encoded log reproduces the
// same entries (the header's property snapshot is not expected to
// round-trip through Entries(), only the entries are).
func TestEncodeDecodeRoundTrip(t *testing.T) {
	l := New(DefaultLogCapacity)
	hs := gestures.HardwareState{
		Timestamp: 1.5, ButtonsDown: gestures.ButtonLeft, FingerCnt: 1,
		Fingers: []gestures.FingerState{{TrackingID: 7, X: 10, Y: 20, Pressure: 30}},
	}
	l.LogHardwareState(hs)
	l.LogGesture(gestures.NewMoveGesture(1, 2, 3, 4, 3, 4))
	l.LogTimerFire(2.0)
	l.LogPropChange("tap_timeout", prop.DoubleValue(0.05))

	hwProps := gestures.HardwareProperties{Left: 0, Right: 1000, Bottom: 800, ResX: 32, ResY: 32}
	data, err := l.Encode(hwProps, map[string]prop.Value{"tap_timeout": prop.DoubleValue(0.05)}, "v1-test")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	parsed, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(parsed.Entries) != 4 {
		t.Fatalf("decoded %d entries, want 4", len(parsed.Entries))
	}
	if parsed.Entries[0].Kind != EntryHardwareState {
		t.Fatalf("entry 0 kind = %v, want EntryHardwareState", parsed.Entries[0].Kind)
	}
	if parsed.Entries[0].HWState.Fingers[0].TrackingID != 7 {
		t.Fatalf("round-tripped finger tracking id = %d, want 7", parsed.Entries[0].HWState.Fingers[0].TrackingID)
	}
	if parsed.Entries[1].Kind != EntryGesture || parsed.Entries[1].Gesture.Type != gestures.GestureTypeMove {
		t.Fatalf("entry 1 = %+v, want a Move gesture", parsed.Entries[1])
	}
	if parsed.HardwareProperties.Right != 1000 {
		t.Fatalf("round-tripped hwprops.Right = %v, want 1000", parsed.HardwareProperties.Right)
	}
	if v, ok := parsed.Properties["tap_timeout"]; !ok || v.Double != 0.05 {
		t.Fatalf("round-tripped property tap_timeout = %+v", v)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	if err == nil {
		t.Fatalf("expected an error decoding malformed JSON")
	}
	var malformed *MalformedLogError
	if !asMalformed(err, &malformed) {
		t.Fatalf("expected a *MalformedLogError, got %T: %v", err, err)
	}
}

func asMalformed(err error, target **MalformedLogError) bool {
	if e, ok := err.(*MalformedLogError); ok {
		*target = e
		return true
	}
	return false
}

func TestDecodeRejectsUnknownEntryType(t *testing.T) {
	_, err := Decode([]byte(`{"version":1,"entries":[{"type":"notAType"}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown entry type")
	}
}
