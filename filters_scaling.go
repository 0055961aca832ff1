package gestures

import "math"

// screenBaselineDPI is the DPI the mm-to-pixel conversion assumes;
// ScreenDPI values above or below it scale deltas proportionally.
const screenBaselineDPI = 133.0

// fallbackDeviceUnitsPerMM is used when the driver reports a zero
// resolution for an axis.
const fallbackDeviceUnitsPerMM = 32.0

// ScalingFilter converts device-unit coordinates into a (0,0)-origin,
// 1mm-per-unit space on the way down the chain, and scales gesture
// deltas from mm back to screen pixels on the way back up.
type ScalingFilter struct {
	FilterInterpreter

	// MouseCPI: counts per inch for a relative-motion (mouse) device.
	MouseCPI float64
	// SurfaceAreaFromPressure: when false (haptic pads), pressure is
	// recomputed from the touch ellipse area rather than trusted as
	// reported.
	SurfaceAreaFromPressure bool
	InvertScroll            bool
	AustralianScrolling     bool
	PressureThreshold       float64
	pressureHysteresis      float64

	resX, resY float64
	initDone   bool

	lastButtonsDown ButtonFlags
}

func NewScalingFilter(next Interpreter) *ScalingFilter {
	return &ScalingFilter{
		FilterInterpreter:  *NewFilterInterpreter("ScalingFilter", next),
		MouseCPI:           1000,
		PressureThreshold:  0,
		pressureHysteresis: 2,
	}
}

func (s *ScalingFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	s.InitSelf(hwProps, consumer, s)
	s.resX = hwProps.ResX
	if s.resX == 0 {
		s.resX = fallbackDeviceUnitsPerMM
	}
	s.resY = hwProps.ResY
	if s.resY == 0 {
		s.resY = fallbackDeviceUnitsPerMM
	}
	s.initDone = true
}

func (s *ScalingFilter) mmPerUnitX() float64 { return 1.0 / s.resX }
func (s *ScalingFilter) mmPerUnitY() float64 { return 1.0 / s.resY }

func (s *ScalingFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	threshold := s.PressureThreshold
	if s.lastButtonsDown != 0 {
		threshold -= s.pressureHysteresis
	}

	kept := hs.Fingers[:0]
	for _, f := range hs.Fingers {
		f.X = (f.X - s.hwProps.Left) * s.mmPerUnitX()
		f.Y = (f.Y - s.hwProps.Top) * s.mmPerUnitY()

		majorMM := f.TouchMajor * s.mmPerUnitX()
		minorMM := f.TouchMinor * s.mmPerUnitY()
		if minorMM > majorMM {
			majorMM, minorMM = minorMM, majorMM
			// Keep orientation within its reported range: rotate down
			// when positive, up otherwise.
			if f.Orientation > 0 {
				f.Orientation -= math.Pi / 2
			} else {
				f.Orientation += math.Pi / 2
			}
		}
		f.TouchMajor, f.TouchMinor = majorMM, minorMM
		f.WidthMajor *= s.mmPerUnitX()
		f.WidthMinor *= s.mmPerUnitY()

		if !s.SurfaceAreaFromPressure {
			f.Pressure = math.Pi * (majorMM / 2) * (minorMM / 2)
		}

		if f.Pressure < threshold {
			continue
		}
		kept = append(kept, f)
	}
	hs.Fingers = kept
	hs.FingerCnt = len(kept)
	s.lastButtonsDown = hs.ButtonsDown

	if s.MouseCPI > 0 {
		mmPerCount := 25.4 / s.MouseCPI
		rx, ry := hs.RelX*mmPerCount, hs.RelY*mmPerCount
		hs.RelX = clampMinPixel(rx)
		hs.RelY = clampMinPixel(ry)
		// Wheel counts are deliberately not scaled by CPI.
	}

	var dt Duration = NoDeadline
	if s.Next() != nil {
		s.Next().SyncInterpret(hs, &dt)
	}
	*timeout = s.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

// clampMinPixel keeps a nonzero sub-pixel relative motion from rounding
// away to nothing for low-DPI mice.
func clampMinPixel(v float64) float64 {
	if v != 0 && math.Abs(v) < 1 {
		if v > 0 {
			return 1
		}
		return -1
	}
	return v
}

func (s *ScalingFilter) screenScale() float64 {
	return s.hwProps.ScreenDPI / screenBaselineDPI
}

// ConsumeGesture scales deltas from mm back to pixels, applies
// invert-scroll/australian-scrolling, and multiplies scroll/fling/swipe
// deltas by the screen scale.
func (s *ScalingFilter) ConsumeGesture(g Gesture) {
	scale := s.screenScale()
	if scale == 0 {
		scale = 1
	}
	switch g.Type {
	case GestureTypeMove, GestureTypeScroll, GestureTypeFling, GestureTypeSwipe, GestureTypeFourFingerSwipe:
		g.Move.DX *= scale
		g.Move.DY *= scale
		g.Move.OrdinalDX *= scale
		g.Move.OrdinalDY *= scale
		if g.Type == GestureTypeScroll || g.Type == GestureTypeFling {
			if s.InvertScroll {
				g.Move.DY = -g.Move.DY
				g.Move.OrdinalDY = -g.Move.OrdinalDY
			}
			if s.AustralianScrolling {
				g.Move.DX = -g.Move.DX
				g.Move.DY = -g.Move.DY
				g.Move.OrdinalDX = -g.Move.OrdinalDX
				g.Move.OrdinalDY = -g.Move.OrdinalDY
			}
		}
	case GestureTypePinch:
		g.DZ *= scale
	}
	s.ProduceGesture(g)
}

func (s *ScalingFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = s.DispatchTimer(now, nil)
}
