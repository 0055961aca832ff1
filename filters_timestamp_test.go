package gestures

import (
	"math"
	"testing"
)

// TestTimestampFilterRebasesOnDeviceClock: once an offset is
// established from the first frame, later frames take their time from
// the device clock plus that offset, not from the host clock.
func TestTimestampFilterRebasesOnDeviceClock(t *testing.T) {
	rec := newRecordingInterpreter()
	tf := NewTimestampFilter(rec)
	tf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(Gesture) {}))

	var timeout Duration
	f0 := HardwareState{Timestamp: 10.0, MscTimestamp: 1.0}
	tf.SyncInterpret(&f0, &timeout)
	f1 := HardwareState{Timestamp: 10.5, MscTimestamp: 1.010}
	tf.SyncInterpret(&f1, &timeout)

	if rec.seen[0].Timestamp != 10.0 {
		t.Fatalf("first frame should rebase to the host clock, got %v", rec.seen[0].Timestamp)
	}
	if math.Abs(rec.seen[1].Timestamp.Seconds()-10.010) > 1e-9 {
		t.Fatalf("second frame = %v, want 10.010 (device delta, not host delta)", rec.seen[1].Timestamp)
	}
}

// A backward jump in the device clock resets the offset instead of
// producing a backward-running timeline.
func TestTimestampFilterBackwardJumpRebases(t *testing.T) {
	rec := newRecordingInterpreter()
	tf := NewTimestampFilter(rec)
	tf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(Gesture) {}))

	var timeout Duration
	f0 := HardwareState{Timestamp: 10.0, MscTimestamp: 5.0}
	tf.SyncInterpret(&f0, &timeout)
	f1 := HardwareState{Timestamp: 10.1, MscTimestamp: 0.5} // device clock wrapped
	tf.SyncInterpret(&f1, &timeout)

	if rec.seen[1].Timestamp != 10.1 {
		t.Fatalf("backward device jump should rebase to the host clock, got %v", rec.seen[1].Timestamp)
	}
}

func TestTimestampFilterFakeTimeline(t *testing.T) {
	rec := newRecordingInterpreter()
	tf := NewTimestampFilter(rec)
	tf.FakeTimestampDelta = 0.008
	tf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(Gesture) {}))

	var timeout Duration
	for _, host := range []Time{1.0, 5.0, 5.001} {
		hs := HardwareState{Timestamp: host}
		tf.SyncInterpret(&hs, &timeout)
	}
	want := []float64{1.0, 1.008, 1.016}
	for i, w := range want {
		if math.Abs(rec.seen[i].Timestamp.Seconds()-w) > 1e-9 {
			t.Fatalf("fake timeline frame %d = %v, want %v", i, rec.seen[i].Timestamp, w)
		}
	}
}
