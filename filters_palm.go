package gestures

import "math"

// PalmClassifyingFilter classifies a contact as a palm using edge
// zone, pressure, width, age, and proximity to other contacts. Palms
// can be demoted back to pointing fingers ("fat finger rescue") if
// their max pressure stayed low and they've since travelled enough to
// look like a deliberate move rather than a resting palm.
type PalmClassifyingFilter struct {
	FilterInterpreter

	metrics *FingerMetrics

	EdgeZoneMM        float64
	PalmPressure      float64
	PalmWidth         float64
	PalmMinAge        Duration
	ProximityRadiusMM float64

	// Fat-finger rescue thresholds.
	RescueMaxPressure float64
	RescueMinTravelMM float64

	promoted map[int16]bool
}

func NewPalmClassifyingFilter(next Interpreter, metrics *FingerMetrics) *PalmClassifyingFilter {
	return &PalmClassifyingFilter{
		FilterInterpreter: *NewFilterInterpreter("PalmClassifyingFilter", next),
		metrics:           metrics,
		EdgeZoneMM:        8,
		PalmPressure:      90,
		PalmWidth:         16,
		PalmMinAge:        0.03,
		ProximityRadiusMM: 40,
		RescueMaxPressure: 40,
		RescueMinTravelMM: 6,
		promoted:          make(map[int16]bool),
	}
}

func (p *PalmClassifyingFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	p.InitSelf(hwProps, consumer, p)
}

func (p *PalmClassifyingFilter) inEdgeZone(f *FingerState) bool {
	hp := p.hwProps
	return f.X-hp.Left < p.EdgeZoneMM || hp.Right-f.X < p.EdgeZoneMM ||
		f.Y-hp.Top < p.EdgeZoneMM || hp.Bottom-f.Y < p.EdgeZoneMM
}

func (p *PalmClassifyingFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	for i := range hs.Fingers {
		f := &hs.Fingers[i]

		if p.promoted[f.TrackingID] {
			f.Flags |= Palm
			continue
		}

		age, _ := p.metrics.Age(f.TrackingID, hs.Timestamp)
		edge := p.inEdgeZone(f)
		wide := f.TouchMajor >= p.PalmWidth || f.WidthMajor >= p.PalmWidth
		heavy := f.Pressure >= p.PalmPressure

		var near bool
		for j := range hs.Fingers {
			if j == i {
				continue
			}
			o := &hs.Fingers[j]
			if math.Hypot(f.X-o.X, f.Y-o.Y) < p.ProximityRadiusMM {
				near = true
				break
			}
		}

		switch {
		case heavy && wide:
			f.Flags |= Palm
			p.promoted[f.TrackingID] = true
		case edge && (heavy || wide) && age >= p.PalmMinAge:
			f.Flags |= Palm
			p.promoted[f.TrackingID] = true
		case edge && near && age >= p.PalmMinAge:
			f.Flags |= PossiblePalm
		}

		if f.Flags.Has(Palm) {
			maxP, _ := p.metrics.MaxPressure(f.TrackingID)
			travel, _ := p.metrics.Travel(f.TrackingID, f.X, f.Y)
			if maxP <= p.RescueMaxPressure && travel >= p.RescueMinTravelMM {
				f.Flags &^= Palm
				delete(p.promoted, f.TrackingID)
			}
		}
	}

	var dt Duration = NoDeadline
	if p.Next() != nil {
		p.Next().SyncInterpret(hs, &dt)
	}
	*timeout = p.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (p *PalmClassifyingFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = p.DispatchTimer(now, nil)
}

func (p *PalmClassifyingFilter) Clear() {
	p.FilterInterpreter.Clear()
	p.promoted = make(map[int16]bool)
}
