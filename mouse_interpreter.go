package gestures

// ticksPerNotch is the kernel's convention for a non-high-resolution
// wheel: one physical detent is reported as 120 "ticks".
const ticksPerNotch = 120

// MouseInterpreter is the terminal stage for plain mice and pointing
// sticks: it turns relative motion into Move, relative wheel counts
// into MouseWheel, and button bitmask changes into ButtonsChange. It
// has no downstream stage.
type MouseInterpreter struct {
	baseInterpreter

	prevButtonsDown ButtonFlags
	haveButtons     bool
}

// NewMouseInterpreter returns the terminal mouse stage.
func NewMouseInterpreter() *MouseInterpreter {
	return &MouseInterpreter{baseInterpreter: baseInterpreter{name: "MouseInterpreter"}}
}

func (m *MouseInterpreter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	m.baseInterpreter.Initialize(hwProps, consumer)
}

func (m *MouseInterpreter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	m.emitButtons(hs)

	if hs.RelX != 0 || hs.RelY != 0 {
		m.ProduceGesture(NewMoveGesture(hs.Timestamp, hs.Timestamp, hs.RelX, hs.RelY, hs.RelX, hs.RelY))
	}

	if m.hwProps != nil && m.hwProps.HasWheel {
		m.emitWheel(hs)
	}

	*timeout = NoDeadline
}

func (m *MouseInterpreter) emitButtons(hs *HardwareState) {
	if !m.haveButtons {
		m.prevButtonsDown = hs.ButtonsDown
		m.haveButtons = true
		if hs.ButtonsDown != 0 {
			m.ProduceGesture(NewButtonsChangeGesture(hs.Timestamp, hs.Timestamp, hs.ButtonsDown, 0, false))
		}
		return
	}
	if hs.ButtonsDown == m.prevButtonsDown {
		return
	}
	down := hs.ButtonsDown &^ m.prevButtonsDown
	up := m.prevButtonsDown &^ hs.ButtonsDown
	m.prevButtonsDown = hs.ButtonsDown
	if down != 0 || up != 0 {
		m.ProduceGesture(NewButtonsChangeGesture(hs.Timestamp, hs.Timestamp, down, up, false))
	}
}

// emitWheel reports tick120 counts in the "natural" sign convention,
// before invert-scroll is applied by ScalingFilter further up the
// chain.
func (m *MouseInterpreter) emitWheel(hs *HardwareState) {
	var tick120dx, tick120dy int
	var dx, dy float64

	if m.hwProps.WheelIsHighResolution {
		if hs.RelWheelHiRes != 0 {
			tick120dy = int(hs.RelWheelHiRes)
			dy = hs.RelWheelHiRes / ticksPerNotch
		}
	} else if hs.RelWheel != 0 {
		tick120dy = int(hs.RelWheel) * ticksPerNotch
		dy = hs.RelWheel
	}

	if hs.RelHWheel != 0 {
		tick120dx = int(hs.RelHWheel) * ticksPerNotch
		dx = hs.RelHWheel
	}

	if tick120dx == 0 && tick120dy == 0 {
		return
	}
	m.ProduceGesture(NewMouseWheelGesture(hs.Timestamp, hs.Timestamp, dx, dy, tick120dx, tick120dy))
}

func (m *MouseInterpreter) HandleTimer(now Time, timeout *Duration) { *timeout = NoDeadline }

func (m *MouseInterpreter) Clear() {
	m.haveButtons = false
	m.prevButtonsDown = 0
}

// MultitouchMouseInterpreter is the terminal stage for a hybrid
// "multitouch mouse" (a relative-motion device that also reports
// finger contacts, e.g. for click-pad-style buttons on a mouse body).
// It reuses MouseInterpreter's relative-motion/wheel handling and adds
// a minimal finger-contact pass so upstream FlingStop/ClickWiggle/
// Lookahead stages (present in this device class's chain) have real
// finger data to operate on, even though final classification stays
// relative-motion-based.
type MultitouchMouseInterpreter struct {
	MouseInterpreter

	metrics *FingerMetrics
}

// NewMultitouchMouseInterpreter returns the terminal multitouch-mouse
// stage. metrics is shared with the wrapping chain the same way
// ImmediateInterpreter shares one with PalmClassifyingFilter.
func NewMultitouchMouseInterpreter(metrics *FingerMetrics) *MultitouchMouseInterpreter {
	return &MultitouchMouseInterpreter{
		MouseInterpreter: MouseInterpreter{baseInterpreter: baseInterpreter{name: "MultitouchMouseInterpreter"}},
		metrics:          metrics,
	}
}

func (mm *MultitouchMouseInterpreter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	mm.metrics.Update(hs)
	mm.MouseInterpreter.SyncInterpret(hs, timeout)
}

func (mm *MultitouchMouseInterpreter) Clear() {
	mm.MouseInterpreter.Clear()
	mm.metrics.Clear()
}
