package gestures

// GestureType tags the variant held by a Gesture.
type GestureType int

const (
	GestureTypeNull GestureType = iota
	GestureTypeContactInitiated
	GestureTypeMove
	GestureTypeScroll
	GestureTypeMouseWheel
	GestureTypePinch
	GestureTypeButtonsChange
	GestureTypeFling
	GestureTypeSwipe
	GestureTypeSwipeLift
	GestureTypeFourFingerSwipe
	GestureTypeFourFingerSwipeLift
	GestureTypeMetrics
)

func (t GestureType) String() string {
	switch t {
	case GestureTypeNull:
		return "Null"
	case GestureTypeContactInitiated:
		return "ContactInitiated"
	case GestureTypeMove:
		return "Move"
	case GestureTypeScroll:
		return "Scroll"
	case GestureTypeMouseWheel:
		return "MouseWheel"
	case GestureTypePinch:
		return "Pinch"
	case GestureTypeButtonsChange:
		return "ButtonsChange"
	case GestureTypeFling:
		return "Fling"
	case GestureTypeSwipe:
		return "Swipe"
	case GestureTypeSwipeLift:
		return "SwipeLift"
	case GestureTypeFourFingerSwipe:
		return "FourFingerSwipe"
	case GestureTypeFourFingerSwipeLift:
		return "FourFingerSwipeLift"
	case GestureTypeMetrics:
		return "Metrics"
	default:
		return "Unknown"
	}
}

// FlingState distinguishes an inertial-scroll-start fling from the
// synthetic tap-down fling-stop signal.
type FlingState int

const (
	FlingStateStart FlingState = iota
	FlingStateTapDown
)

// MetricsType tags the two payload doubles of a Metrics gesture.
type MetricsType int

const (
	MetricsTypeMovement MetricsType = iota
	MetricsTypeNoMovement
)

// GestureMove carries a smoothed (DX, DY) and an unsmoothed "ordinal"
// delta, used by Move and as the embedded payload of Scroll/Fling/Swipe.
type GestureMove struct {
	DX, DY               float64
	OrdinalDX, OrdinalDY float64
}

// Gesture is a tagged union of every high-level event the pipeline can
// emit. Every variant carries StartTime/EndTime; only the fields
// relevant to Type are meaningful.
type Gesture struct {
	Type      GestureType
	StartTime Time
	EndTime   Time

	// Move, Scroll, Fling, Swipe, FourFingerSwipe payload.
	Move GestureMove

	// MouseWheel payload (also uses Move.DX/DY in mm/pixels).
	TickDX120, TickDY120 int

	// Pinch payload: dZ is the change in finger separation.
	DZ float64

	// ButtonsChange payload.
	ButtonsDown ButtonFlags
	ButtonsUp   ButtonFlags
	IsTap       bool

	// Fling payload.
	FlingState FlingState

	// Metrics payload.
	MetricsType MetricsType
	Metrics1    float64
	Metrics2    float64
}

// NullGesture reports whether g is the zero/Null gesture.
func (g Gesture) NullGesture() bool { return g.Type == GestureTypeNull }

func newMoveGesture(typ GestureType, start, end Time, dx, dy, odx, ody float64) Gesture {
	return Gesture{
		Type:      typ,
		StartTime: start,
		EndTime:   end,
		Move:      GestureMove{DX: dx, DY: dy, OrdinalDX: odx, OrdinalDY: ody},
	}
}

// NewMoveGesture builds a Move gesture.
func NewMoveGesture(start, end Time, dx, dy, odx, ody float64) Gesture {
	return newMoveGesture(GestureTypeMove, start, end, dx, dy, odx, ody)
}

// NewScrollGesture builds a Scroll gesture.
func NewScrollGesture(start, end Time, dx, dy, odx, ody float64) Gesture {
	return newMoveGesture(GestureTypeScroll, start, end, dx, dy, odx, ody)
}

// NewFlingGesture builds a Fling gesture.
func NewFlingGesture(start, end Time, vx, vy float64, state FlingState) Gesture {
	g := newMoveGesture(GestureTypeFling, start, end, vx, vy, vx, vy)
	g.FlingState = state
	return g
}

// NewPinchGesture builds a Pinch gesture.
func NewPinchGesture(start, end Time, dz, ordinalDz float64) Gesture {
	return Gesture{
		Type:      GestureTypePinch,
		StartTime: start,
		EndTime:   end,
		DZ:        dz,
		Move:      GestureMove{OrdinalDX: ordinalDz},
	}
}

// NewButtonsChangeGesture builds a ButtonsChange gesture.
func NewButtonsChangeGesture(start, end Time, down, up ButtonFlags, isTap bool) Gesture {
	return Gesture{
		Type:        GestureTypeButtonsChange,
		StartTime:   start,
		EndTime:     end,
		ButtonsDown: down,
		ButtonsUp:   up,
		IsTap:       isTap,
	}
}

// NewMouseWheelGesture builds a MouseWheel gesture. dx/dy are in the
// caller's current unit (mm pre-scaling, pixels post-scaling);
// tick120 values are the 120ths-of-a-tick counts in natural (pre
// invert-scroll) sign convention.
func NewMouseWheelGesture(start, end Time, dx, dy float64, tick120dx, tick120dy int) Gesture {
	g := newMoveGesture(GestureTypeMouseWheel, start, end, dx, dy, dx, dy)
	g.TickDX120, g.TickDY120 = tick120dx, tick120dy
	return g
}

// NewSwipeGesture builds a Swipe or FourFingerSwipe gesture.
func NewSwipeGesture(fourFinger bool, start, end Time, dx, dy, odx, ody float64) Gesture {
	t := GestureTypeSwipe
	if fourFinger {
		t = GestureTypeFourFingerSwipe
	}
	return newMoveGesture(t, start, end, dx, dy, odx, ody)
}

// NewSwipeLiftGesture builds the lift terminator for a swipe.
func NewSwipeLiftGesture(fourFinger bool, start, end Time) Gesture {
	t := GestureTypeSwipeLift
	if fourFinger {
		t = GestureTypeFourFingerSwipeLift
	}
	return Gesture{Type: t, StartTime: start, EndTime: end}
}

// NewMetricsGesture builds a Metrics gesture.
func NewMetricsGesture(start, end Time, typ MetricsType, m1, m2 float64) Gesture {
	return Gesture{Type: GestureTypeMetrics, StartTime: start, EndTime: end, MetricsType: typ, Metrics1: m1, Metrics2: m2}
}

// NewContactInitiatedGesture signals a new contact has touched down.
func NewContactInitiatedGesture(start, end Time) Gesture {
	return Gesture{Type: GestureTypeContactInitiated, StartTime: start, EndTime: end}
}
