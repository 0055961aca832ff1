package gestures

// BoxFilter treats each reported position as the centre of a box of
// configurable width/height: motion within the box is suppressed
// (position reported as the box centre) and the box re-centres only
// once the finger exits it. This is a cheap jitter filter independent
// of StationaryWiggleFilter's energy model.
type BoxFilter struct {
	FilterInterpreter

	Width, Height float64

	centers map[int16][2]float64
}

func NewBoxFilter(next Interpreter) *BoxFilter {
	return &BoxFilter{
		FilterInterpreter: *NewFilterInterpreter("BoxFilter", next),
		Width:             1.0,
		Height:            1.0,
		centers:           make(map[int16][2]float64),
	}
}

func (b *BoxFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	b.InitSelf(hwProps, consumer, b)
}

func (b *BoxFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	present := make(map[int16]bool, len(hs.Fingers))
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		present[f.TrackingID] = true
		c, ok := b.centers[f.TrackingID]
		if !ok {
			b.centers[f.TrackingID] = [2]float64{f.X, f.Y}
			continue
		}
		dx, dy := f.X-c[0], f.Y-c[1]
		if dx > b.Width/2 || dx < -b.Width/2 || dy > b.Height/2 || dy < -b.Height/2 {
			b.centers[f.TrackingID] = [2]float64{f.X, f.Y}
			continue
		}
		f.X, f.Y = c[0], c[1]
	}
	for id := range b.centers {
		if !present[id] {
			delete(b.centers, id)
		}
	}

	var dt Duration = NoDeadline
	if b.Next() != nil {
		b.Next().SyncInterpret(hs, &dt)
	}
	*timeout = b.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (b *BoxFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = b.DispatchTimer(now, nil)
}

func (b *BoxFilter) Clear() {
	b.FilterInterpreter.Clear()
	b.centers = make(map[int16][2]float64)
}
