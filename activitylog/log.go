package activitylog

import (
	"sync"

	"github.com/8ff/gestures"
	"github.com/8ff/gestures/prop"
	"github.com/google/uuid"
)

// Ring capacities for the two usual build configurations: the default
// for production hosts, the extended one for log-heavy test rigs.
const (
	DefaultLogCapacity  = 8192
	ExtendedLogCapacity = 65536
)

// Log is a fixed-capacity ring buffer of Entry; pushing past capacity
// silently evicts the oldest entry.
type Log struct {
	mu        sync.Mutex
	entries   []Entry
	head      int // index of the oldest entry
	size      int
	capacity  int
	sessionID uuid.UUID
}

// New returns an empty Log with the given ring capacity. Use
// DefaultLogCapacity or ExtendedLogCapacity unless a host has a
// specific reason to size it differently.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{
		entries:   make([]Entry, capacity),
		capacity:  capacity,
		sessionID: uuid.New(),
	}
}

// SessionID returns the identifier stamped into this log's encoded
// output, letting a corpus of replay logs be deduplicated/joined.
func (l *Log) SessionID() uuid.UUID { return l.sessionID }

// pushBack appends e, evicting the oldest entry if full.
func (l *Log) pushBack(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := (l.head + l.size) % l.capacity
	if l.size == l.capacity {
		// Full: overwrite the oldest slot and advance head.
		l.entries[idx] = e
		l.head = (l.head + 1) % l.capacity
		return
	}
	l.entries[idx] = e
	l.size++
}

// LogHardwareState records an inbound frame. The FingerState slice is
// deep-copied so the log never aliases the caller's memory.
func (l *Log) LogHardwareState(hs gestures.HardwareState) {
	l.pushBack(Entry{Kind: EntryHardwareState, HWState: hs.DeepCopy()})
}

func (l *Log) LogDebugHardwareStatePre(hs gestures.HardwareState) {
	l.pushBack(Entry{Kind: EntryDebugHardwareStatePre, HWState: hs.DeepCopy()})
}

func (l *Log) LogDebugHardwareStatePost(hs gestures.HardwareState) {
	l.pushBack(Entry{Kind: EntryDebugHardwareStatePost, HWState: hs.DeepCopy()})
}

// LogTimerFire records a host timer callback at t.
func (l *Log) LogTimerFire(t gestures.Time) {
	l.pushBack(Entry{Kind: EntryTimerFire, TimerTime: t})
}

// LogTimerRequest records a stage's requested callback.
func (l *Log) LogTimerRequest(now gestures.Time, timeout gestures.Duration) {
	l.pushBack(Entry{Kind: EntryTimerRequest, TimerTime: now, TimerTimeout: timeout})
}

// LogGesture records an emitted gesture.
func (l *Log) LogGesture(g gestures.Gesture) {
	l.pushBack(Entry{Kind: EntryGesture, Gesture: g})
}

func (l *Log) LogDebugGestureConsume(g gestures.Gesture) {
	l.pushBack(Entry{Kind: EntryDebugGestureConsume, Gesture: g})
}

func (l *Log) LogDebugGestureProduce(g gestures.Gesture) {
	l.pushBack(Entry{Kind: EntryDebugGestureProduce, Gesture: g})
}

func (l *Log) LogDebugHandleTimerPre(now gestures.Time) {
	l.pushBack(Entry{Kind: EntryDebugHandleTimerPre, TimerTime: now})
}

func (l *Log) LogDebugHandleTimerPost(now gestures.Time) {
	l.pushBack(Entry{Kind: EntryDebugHandleTimerPost, TimerTime: now})
}

// LogPropChange implements prop.ChangeLogger: a registry with this log
// attached appends one entry per accepted write.
func (l *Log) LogPropChange(name string, v prop.Value) {
	l.pushBack(Entry{Kind: EntryPropChange, Prop: PropChange{Name: name, Value: v}})
}

// LogAccelDebug / LogTimestampDebug record free-form per-stage debug
// scalars (e.g. AccelFilter's chosen gain, TimestampFilter's skew).
func (l *Log) LogAccelDebug(a, b float64) {
	l.pushBack(Entry{Kind: EntryAccelDebug, Debug1: a, Debug2: b})
}

func (l *Log) LogTimestampDebug(a, b float64) {
	l.pushBack(Entry{Kind: EntryTimestampDebug, Debug1: a, Debug2: b})
}

// Clear resets the log to empty.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head, l.size = 0, 0
}

// Len returns the number of entries currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.entries[(l.head+i)%l.capacity]
	}
	return out
}
