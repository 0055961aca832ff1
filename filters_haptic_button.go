package gestures

// HapticButtonGeneratorFilter synthesizes button-down/up from the
// force-in-grams value a haptic pad (no mechanical button) reports in
// the pressure field, using a sensitivity-indexed threshold table and
// a dynamic "double-click-easier" mode once a very hard press has been
// observed recently.
type HapticButtonGeneratorFilter struct {
	FilterInterpreter

	// Sensitivity selects a row of DownThresholds/UpThresholds; higher
	// is more sensitive (lower grams required).
	Sensitivity int
	// DownThresholds/UpThresholds are grams-of-force thresholds indexed
	// by Sensitivity, with hysteresis (Up < Down).
	DownThresholds []float64
	UpThresholds   []float64

	// DoubleClickEasierWindow: after a very hard press, the down
	// threshold is relaxed for this long to make a rapid second click
	// easier.
	DoubleClickEasierWindow Duration
	VeryHardPressGrams      float64

	buttonDown      bool
	easierUntil     Time
	haveEasierUntil bool
}

func NewHapticButtonGeneratorFilter(next Interpreter) *HapticButtonGeneratorFilter {
	return &HapticButtonGeneratorFilter{
		FilterInterpreter:       *NewFilterInterpreter("HapticButtonGeneratorFilter", next),
		Sensitivity:             2,
		DownThresholds:          []float64{40, 30, 20, 12, 6},
		UpThresholds:            []float64{30, 22, 14, 8, 4},
		DoubleClickEasierWindow: 0.5,
		VeryHardPressGrams:      80,
	}
}

func (h *HapticButtonGeneratorFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	h.InitSelf(hwProps, consumer, h)
}

func (h *HapticButtonGeneratorFilter) thresholds() (down, up float64) {
	idx := h.Sensitivity
	if idx < 0 {
		idx = 0
	}
	if idx >= len(h.DownThresholds) {
		idx = len(h.DownThresholds) - 1
	}
	return h.DownThresholds[idx], h.UpThresholds[idx]
}

func (h *HapticButtonGeneratorFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	if h.hwProps.HapticPad {
		maxForce := 0.0
		for _, f := range hs.Fingers {
			if f.Pressure > maxForce {
				maxForce = f.Pressure
			}
		}

		down, up := h.thresholds()
		if h.haveEasierUntil && hs.Timestamp <= h.easierUntil {
			down *= 0.7
		}

		if maxForce >= h.VeryHardPressGrams {
			h.easierUntil = hs.Timestamp.Add(h.DoubleClickEasierWindow)
			h.haveEasierUntil = true
		}

		switch {
		case !h.buttonDown && maxForce >= down:
			h.buttonDown = true
			hs.ButtonsDown |= ButtonLeft
		case h.buttonDown && maxForce < up:
			h.buttonDown = false
		}
		if h.buttonDown {
			hs.ButtonsDown |= ButtonLeft
		}
	}

	var dt Duration = NoDeadline
	if h.Next() != nil {
		h.Next().SyncInterpret(hs, &dt)
	}
	*timeout = h.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (h *HapticButtonGeneratorFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = h.DispatchTimer(now, nil)
}

func (h *HapticButtonGeneratorFilter) Clear() {
	h.FilterInterpreter.Clear()
	h.buttonDown, h.haveEasierUntil = false, false
}
