package gestures

// ClickWiggleFilter suppresses the small positional jitter that occurs
// right when a physical button-pad click is registered: pressing a
// button-pad mechanically tilts the surface slightly, which would
// otherwise look like a tiny, spurious Move.
type ClickWiggleFilter struct {
	FilterInterpreter

	WiggleRadiusMM float64

	wasButtonDown bool
	anchors       map[int16][2]float64
}

func NewClickWiggleFilter(next Interpreter) *ClickWiggleFilter {
	return &ClickWiggleFilter{
		FilterInterpreter: *NewFilterInterpreter("ClickWiggleFilter", next),
		WiggleRadiusMM:     1.5,
		anchors:            make(map[int16][2]float64),
	}
}

func (c *ClickWiggleFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	c.InitSelf(hwProps, consumer, c)
}

func (c *ClickWiggleFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	buttonDown := hs.ButtonsDown != 0
	justPressed := buttonDown && !c.wasButtonDown
	c.wasButtonDown = buttonDown

	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		if justPressed || !buttonDown {
			c.anchors[f.TrackingID] = [2]float64{f.X, f.Y}
		}
		if buttonDown {
			a, ok := c.anchors[f.TrackingID]
			if ok {
				dx, dy := f.X-a[0], f.Y-a[1]
				if dx*dx+dy*dy <= c.WiggleRadiusMM*c.WiggleRadiusMM {
					f.X, f.Y = a[0], a[1]
				}
			}
		}
	}
	if !buttonDown {
		present := make(map[int16]bool, len(hs.Fingers))
		for _, f := range hs.Fingers {
			present[f.TrackingID] = true
		}
		for id := range c.anchors {
			if !present[id] {
				delete(c.anchors, id)
			}
		}
	}

	var dt Duration = NoDeadline
	if c.Next() != nil {
		c.Next().SyncInterpret(hs, &dt)
	}
	*timeout = c.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func (c *ClickWiggleFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = c.DispatchTimer(now, nil)
}

func (c *ClickWiggleFilter) Clear() {
	c.FilterInterpreter.Clear()
	c.wasButtonDown = false
	c.anchors = make(map[int16][2]float64)
}
