package gestures

// StationaryWiggleFilter identifies sub-threshold oscillation using a
// running energy estimate per finger, and sets InstantaneousMoving
// only once the energy passes a hysteresis threshold — so a finger
// resting but trembling slightly isn't mistaken for an intentional
// move on every single frame boundary.
type StationaryWiggleFilter struct {
	FilterInterpreter

	EnergyDecay    float64 // 0..1, applied per frame before adding new energy
	OnThreshold    float64
	OffThreshold   float64

	energy map[int16]float64
	moving map[int16]bool
	lastXY map[int16][2]float64
}

func NewStationaryWiggleFilter(next Interpreter) *StationaryWiggleFilter {
	return &StationaryWiggleFilter{
		FilterInterpreter: *NewFilterInterpreter("StationaryWiggleFilter", next),
		EnergyDecay:       0.8,
		OnThreshold:       1.5,
		OffThreshold:      0.5,
		energy:            make(map[int16]float64),
		moving:            make(map[int16]bool),
		lastXY:            make(map[int16][2]float64),
	}
}

func (w *StationaryWiggleFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	w.InitSelf(hwProps, consumer, w)
}

func (w *StationaryWiggleFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	present := make(map[int16]bool, len(hs.Fingers))
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		present[f.TrackingID] = true

		prev, had := w.lastXY[f.TrackingID]
		w.lastXY[f.TrackingID] = [2]float64{f.X, f.Y}
		e := w.energy[f.TrackingID] * w.EnergyDecay
		if had {
			dx, dy := f.X-prev[0], f.Y-prev[1]
			e += dx*dx + dy*dy
		}
		w.energy[f.TrackingID] = e

		moving := w.moving[f.TrackingID]
		switch {
		case !moving && e >= w.OnThreshold:
			moving = true
		case moving && e <= w.OffThreshold:
			moving = false
		}
		w.moving[f.TrackingID] = moving
		if moving {
			f.Flags |= InstantaneousMoving
		}
	}
	for id := range w.energy {
		if !present[id] {
			delete(w.energy, id)
			delete(w.moving, id)
			delete(w.lastXY, id)
		}
	}

	var dt Duration = NoDeadline
	if w.Next() != nil {
		w.Next().SyncInterpret(hs, &dt)
	}
	*timeout = w.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (w *StationaryWiggleFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = w.DispatchTimer(now, nil)
}

func (w *StationaryWiggleFilter) Clear() {
	w.FilterInterpreter.Clear()
	w.energy = make(map[int16]float64)
	w.moving = make(map[int16]bool)
	w.lastXY = make(map[int16][2]float64)
}
