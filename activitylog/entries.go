// Package activitylog implements the bounded circular activity log and
// the replay harness that re-drives a recorded log through a freshly
// built interpreter chain.
package activitylog

import (
	"github.com/8ff/gestures"
	"github.com/8ff/gestures/prop"
)

// EntryKind tags one logged event.
type EntryKind int

const (
	EntryHardwareState EntryKind = iota
	EntryTimerFire
	EntryTimerRequest
	EntryGesture
	EntryPropChange
	EntryDebugHardwareStatePre
	EntryDebugHardwareStatePost
	EntryDebugGestureConsume
	EntryDebugGestureProduce
	EntryDebugHandleTimerPre
	EntryDebugHandleTimerPost
	EntryAccelDebug
	EntryTimestampDebug
)

func (k EntryKind) String() string {
	switch k {
	case EntryHardwareState:
		return "hwstate"
	case EntryTimerFire:
		return "timerFire"
	case EntryTimerRequest:
		return "timerRequest"
	case EntryGesture:
		return "gesture"
	case EntryPropChange:
		return "propChange"
	case EntryDebugHardwareStatePre:
		return "debugHwStatePre"
	case EntryDebugHardwareStatePost:
		return "debugHwStatePost"
	case EntryDebugGestureConsume:
		return "debugGestureConsume"
	case EntryDebugGestureProduce:
		return "debugGestureProduce"
	case EntryDebugHandleTimerPre:
		return "debugHandleTimerPre"
	case EntryDebugHandleTimerPost:
		return "debugHandleTimerPost"
	case EntryAccelDebug:
		return "accelDebug"
	case EntryTimestampDebug:
		return "timestampDebug"
	default:
		return "unknown"
	}
}

// PropChange is the logged payload of an accepted property write.
type PropChange struct {
	Name  string
	Value prop.Value
}

// Entry is one slot in the ring. Only the field(s) matching Kind are
// meaningful; HardwareState entries hold a deep copy of the fingers,
// so the log never aliases caller memory.
type Entry struct {
	Kind EntryKind

	// EntryHardwareState / EntryDebugHardwareStatePre / Post
	HWState gestures.HardwareState

	// EntryTimerFire / EntryTimerRequest
	TimerTime    gestures.Time
	TimerTimeout gestures.Duration

	// EntryGesture / EntryDebugGestureConsume / Produce
	Gesture gestures.Gesture

	// EntryPropChange
	Prop PropChange

	// EntryAccelDebug / EntryTimestampDebug: two free-form scalars
	// (chosen gain and speed, skew and device time).
	Debug1, Debug2 float64
}
