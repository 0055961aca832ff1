package gestures

// FingerFlags is a bitfield attached to one FingerState in one frame.
// Each bit has exactly one meaning; stages must not repurpose a flag
// for anything other than its documented use.
type FingerFlags uint32

const (
	// WarpX means the consumer must not derive horizontal motion from
	// this frame for this contact; WarpY is the vertical equivalent.
	WarpX FingerFlags = 1 << iota
	WarpY
	// WarpXNonMove / WarpYNonMove: the contact warped on this axis but
	// the warp is not itself an intentional move (e.g. re-identified
	// after a drumroll split).
	WarpXNonMove
	WarpYNonMove
	// WarpXMove / WarpYMove: the contact warped on this axis as a
	// deliberate move (e.g. quick-move correction).
	WarpXMove
	WarpYMove
	// WarpXTapMove / WarpYTapMove: warp happened during tap-down
	// prediction.
	WarpXTapMove
	WarpYTapMove
	// WarpTeleportation: the contact's position changed implausibly
	// within one frame (tracking-id reuse, sensor glitch).
	WarpTeleportation
	// NoTap disqualifies this contact from contributing to a tap.
	NoTap
	// PossiblePalm / Palm: edge-zone or pressure/width heuristics
	// flagged this contact as probably, or definitely, a palm.
	PossiblePalm
	Palm
	// Merge: this contact's history indicates it is the same physical
	// finger as another, sensor-split, contact.
	Merge
	// InstantaneousMoving: this frame's motion passed the stationary-
	// wiggle energy threshold.
	InstantaneousMoving
	// Trend-direction bits, set by TrendClassifyingFilter once a
	// Kendall-tau test on recent samples is significant.
	TrendIncX
	TrendDecX
	TrendIncY
	TrendDecY
	TrendIncPressure
	TrendDecPressure
	TrendIncTouchMajor
	TrendDecTouchMajor
)

func (f FingerFlags) Has(bit FingerFlags) bool { return f&bit != 0 }

// FingerState is one contact in one frame.
type FingerState struct {
	TouchMajor  float64
	TouchMinor  float64
	WidthMajor  float64
	WidthMinor  float64
	Pressure    float64
	Orientation float64
	X, Y        float64
	// TrackingID is device-assigned but may be rewritten by Lookahead.
	TrackingID int16
	Flags      FingerFlags
}

// Clone returns a deep copy (FingerState has no reference fields today,
// but stages that cache history call Clone rather than copy by value
// directly so a future reference field does not silently alias).
func (f FingerState) Clone() FingerState { return f }

// HardwareProperties is immutable for the lifetime of a chain, set once
// at Initialize.
type HardwareProperties struct {
	Left, Top, Right, Bottom float64
	ResX, ResY               float64 // device units per mm
	ScreenDPI                float64
	OrientationMinimum       int
	OrientationMaximum       int
	MaxFingerCount           int
	MaxTouchCount            int

	T5R2                 bool
	SemiMT               bool
	IsButtonPad          bool
	HasWheel             bool
	WheelIsHighResolution bool
	HapticPad            bool
}

// ButtonFlags is a bitmask of physical/synthesized buttons.
type ButtonFlags uint32

const (
	ButtonLeft ButtonFlags = 1 << iota
	ButtonMiddle
	ButtonRight
	ButtonBack
	ButtonForward
)

// HardwareState is one frame. Fingers is owned by the caller of
// SyncInterpret and must not be retained past the call; any stage that
// needs history must deep-copy it (see CloneFingers).
type HardwareState struct {
	Timestamp    Time
	ButtonsDown  ButtonFlags
	FingerCnt    int
	TouchCnt     int
	Fingers      []FingerState
	RelX, RelY   float64
	RelWheel     float64
	RelWheelHiRes float64
	RelHWheel    float64
	MscTimestamp float64
}

// DeepCopy returns a HardwareState whose Fingers slice is independent
// of hs.Fingers, safe to retain past the call that produced hs.
func (hs HardwareState) DeepCopy() HardwareState {
	out := hs
	if hs.Fingers != nil {
		out.Fingers = make([]FingerState, len(hs.Fingers))
		copy(out.Fingers, hs.Fingers)
	}
	return out
}

// FingerByID returns a pointer to the finger with the given tracking
// id in hs.Fingers, or nil.
func (hs *HardwareState) FingerByID(id int16) *FingerState {
	for i := range hs.Fingers {
		if hs.Fingers[i].TrackingID == id {
			return &hs.Fingers[i]
		}
	}
	return nil
}
