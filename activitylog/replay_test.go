package activitylog

import (
	"testing"

	"github.com/8ff/gestures"
)

// passthroughInterpreter is a minimal Interpreter used to verify that
// Replay drives its Chain with every logged frame and timer fire, in
// order.
type passthroughInterpreter struct {
	syncSeen  []gestures.HardwareState
	timerSeen []gestures.Time
	consumer  gestures.GestureConsumer
}

func (p *passthroughInterpreter) Initialize(hwProps *gestures.HardwareProperties, consumer gestures.GestureConsumer) {
	p.consumer = consumer
}
func (p *passthroughInterpreter) SyncInterpret(hs *gestures.HardwareState, timeout *gestures.Duration) {
	p.syncSeen = append(p.syncSeen, hs.DeepCopy())
	*timeout = gestures.NoDeadline
}
func (p *passthroughInterpreter) HandleTimer(now gestures.Time, timeout *gestures.Duration) {
	p.timerSeen = append(p.timerSeen, now)
	*timeout = gestures.NoDeadline
}
func (p *passthroughInterpreter) ConsumeGesture(g gestures.Gesture) {
	if p.consumer != nil {
		p.consumer.ConsumeGesture(g)
	}
}
func (p *passthroughInterpreter) Clear() {}
func (p *passthroughInterpreter) Name() string { return "passthrough" }

func TestReplayRunDrivesChainInOrder(t *testing.T) {
	chain := &passthroughInterpreter{}
	r := NewReplay(chain, gestures.HardwareProperties{})

	log := &ParsedLog{
		Entries: []Entry{
			{Kind: EntryHardwareState, HWState: gestures.HardwareState{Timestamp: 1, Fingers: []gestures.FingerState{{TrackingID: 1}}}},
			{Kind: EntryTimerFire, TimerTime: 1.05},
			{Kind: EntryHardwareState, HWState: gestures.HardwareState{Timestamp: 2}},
		},
	}
	if err := r.Run(log); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(chain.syncSeen) != 2 {
		t.Fatalf("expected 2 SyncInterpret calls, got %d", len(chain.syncSeen))
	}
	if len(chain.timerSeen) != 1 || chain.timerSeen[0] != 1.05 {
		t.Fatalf("expected 1 timer fire at t=1.05, got %v", chain.timerSeen)
	}
}

// TestReplayMouseFieldSwapQuirk pins the deliberately preserved
// quirk: rel_x is assigned from the decoded rel_y field for
// finger-less (mouse) frames.
func TestReplayMouseFieldSwapQuirk(t *testing.T) {
	chain := &passthroughInterpreter{}
	r := NewReplay(chain, gestures.HardwareProperties{})

	log := &ParsedLog{
		Entries: []Entry{
			{Kind: EntryHardwareState, HWState: gestures.HardwareState{Timestamp: 1, RelX: 3, RelY: 7}},
		},
	}
	if err := r.Run(log); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if chain.syncSeen[0].RelX != 7 {
		t.Fatalf("expected the quirky rel_x-from-rel_y swap (RelX=7), got %v", chain.syncSeen[0].RelX)
	}
}

func TestReplayProducedGesturesCollected(t *testing.T) {
	chain := &passthroughInterpreter{}
	r := NewReplay(chain, gestures.HardwareProperties{})
	chain.ConsumeGesture(gestures.NewMoveGesture(0, 1, 1, 1, 1, 1))
	if len(r.Produced) != 1 {
		t.Fatalf("expected the gesture forwarded via Initialize's consumer to land in Produced, got %v", r.Produced)
	}
}
