package gestures

import "testing"

// recordingInterpreter is a terminal stage that records every
// HardwareState it sees, used to inspect what LookaheadFilter forwards
// downstream.
type recordingInterpreter struct {
	baseInterpreter
	seen []HardwareState
}

func newRecordingInterpreter() *recordingInterpreter {
	return &recordingInterpreter{baseInterpreter: baseInterpreter{name: "recorder"}}
}

func (r *recordingInterpreter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	r.seen = append(r.seen, hs.DeepCopy())
	*timeout = NoDeadline
}
func (r *recordingInterpreter) HandleTimer(now Time, timeout *Duration) { *timeout = NoDeadline }

// TestLookaheadDrumroll: a large reversal on the third frame must
// reassign a new tracking id and set NoTap (motion classification
// itself lives downstream in ImmediateInterpreter, so this test only
// checks Lookahead's own contract: id rewriting and flag propagation).
func TestLookaheadDrumroll(t *testing.T) {
	rec := newRecordingInterpreter()
	lf := NewLookaheadFilter(rec)
	lf.MinDelay = 0
	lf.MaxDelay = 0
	lf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(Gesture) {}))

	var timeout Duration
	f0 := HardwareState{Timestamp: 0.00, FingerCnt: 1, Fingers: []FingerState{finger(1, 50, 50, 50)}}
	lf.SyncInterpret(&f0, &timeout)

	f1 := HardwareState{Timestamp: 0.01, FingerCnt: 1, Fingers: []FingerState{finger(1, 50, 60, 50)}}
	lf.SyncInterpret(&f1, &timeout)

	f2 := HardwareState{Timestamp: 0.02, FingerCnt: 1, Fingers: []FingerState{finger(1, 50, 5, 50)}}
	lf.SyncInterpret(&f2, &timeout)

	if len(rec.seen) != 3 {
		t.Fatalf("expected all 3 frames forwarded with MaxDelay=0, got %d", len(rec.seen))
	}
	id0 := rec.seen[0].Fingers[0].TrackingID
	id1 := rec.seen[1].Fingers[0].TrackingID
	id2 := rec.seen[2].Fingers[0].TrackingID
	if id0 != id1 {
		t.Fatalf("first two frames should share an id (no reversal yet): %d vs %d", id0, id1)
	}
	if id2 == id1 {
		t.Fatalf("the reversed third frame should get a new tracking id, got same id %d", id2)
	}
	if !rec.seen[2].Fingers[0].Flags.Has(NoTap) {
		t.Fatalf("the reversed third frame should carry NoTap")
	}
}

// TestLookaheadImmediateTapdownFling: by default the synthetic
// Fling(TAP_DOWN) on touchdown is suppressed; only with
// SuppressImmediateTapdown disabled does a new finger emit it, so a
// prior inertial fling halts promptly.
func TestLookaheadImmediateTapdownFling(t *testing.T) {
	rec := newRecordingInterpreter()
	lf := NewLookaheadFilter(rec)
	var produced []Gesture
	lf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(g Gesture) { produced = append(produced, g) }))

	var timeout Duration
	hs := HardwareState{Timestamp: 1.0, FingerCnt: 1, Fingers: []FingerState{finger(1, 10, 10, 50)}}
	lf.SyncInterpret(&hs, &timeout)

	for _, g := range produced {
		if g.Type == GestureTypeFling && g.FlingState == FlingStateTapDown {
			t.Fatalf("the default configuration must not emit a tapdown fling, got %+v", g)
		}
	}

	lf.Clear()
	lf.SuppressImmediateTapdown = false
	produced = nil
	hs2 := HardwareState{Timestamp: 2.0, FingerCnt: 1, Fingers: []FingerState{finger(1, 10, 10, 50)}}
	lf.SyncInterpret(&hs2, &timeout)

	found := false
	for _, g := range produced {
		if g.Type == GestureTypeFling && g.FlingState == FlingStateTapDown {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Fling(TAP_DOWN) on touchdown with suppression disabled, got %+v", produced)
	}
}

// TestLookaheadDelayedFlushOnTimer: with a nonzero MinDelay the frame
// is held back, the filter asks for a callback, and the timer fire
// flushes the frame downstream.
func TestLookaheadDelayedFlushOnTimer(t *testing.T) {
	rec := newRecordingInterpreter()
	lf := NewLookaheadFilter(rec)
	lf.MinDelay = 0.05
	lf.MaxDelay = 0.05
	lf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(Gesture) {}))

	var timeout Duration
	hs := HardwareState{Timestamp: 1.0, FingerCnt: 1, Fingers: []FingerState{finger(1, 10, 10, 50)}}
	lf.SyncInterpret(&hs, &timeout)

	if len(rec.seen) != 0 {
		t.Fatalf("frame should still be queued with MinDelay=0.05, got %d forwarded", len(rec.seen))
	}
	if !timeout.HasDeadline() {
		t.Fatalf("expected a callback request while a frame is queued")
	}

	lf.HandleTimer(Time(1.0).Add(timeout), &timeout)
	if len(rec.seen) != 1 {
		t.Fatalf("timer fire should flush the queued frame, got %d", len(rec.seen))
	}
}

// TestLookaheadStableIdentityWithoutReversal: absent drumroll and
// quick-move conditions, a steadily moving finger keeps one output
// tracking id across frames.
func TestLookaheadStableIdentityWithoutReversal(t *testing.T) {
	rec := newRecordingInterpreter()
	lf := NewLookaheadFilter(rec)
	lf.MinDelay = 0
	lf.MaxDelay = 0
	lf.Initialize(&HardwareProperties{}, GestureConsumerFunc(func(Gesture) {}))

	var timeout Duration
	for i, pos := range [][2]float64{{10, 10}, {11, 11}, {12, 12}, {13, 13}} {
		hs := HardwareState{Timestamp: Time(float64(i) * 0.01), FingerCnt: 1, Fingers: []FingerState{finger(1, pos[0], pos[1], 50)}}
		lf.SyncInterpret(&hs, &timeout)
	}
	first := rec.seen[0].Fingers[0].TrackingID
	for i, hs := range rec.seen {
		if hs.Fingers[0].TrackingID != first {
			t.Fatalf("frame %d got a different tracking id (%d) than the first (%d) with no drumroll condition", i, hs.Fingers[0].TrackingID, first)
		}
	}
}
