package gestures

import "math"

// kendallZThreshold is the Z-score for p ~= 0.01 two-tailed.
const kendallZThreshold = 2.5758

// TrendClassifyingFilter runs a Kendall-tau test per axis over each
// finger's last 6-20 samples and sets the direction-trend flags
// (TrendIncX/TrendDecX/...) when the test is significant. These flags
// let downstream stages (the tap machine, palm rescue) tell a
// consistent drift from jitter.
type TrendClassifyingFilter struct {
	FilterInterpreter

	MinSamples int
	history    *FingerHistory
}

func NewTrendClassifyingFilter(next Interpreter) *TrendClassifyingFilter {
	return &TrendClassifyingFilter{
		FilterInterpreter: *NewFilterInterpreter("TrendClassifyingFilter", next),
		MinSamples:        6,
		history:           NewFingerHistory(20),
	}
}

func (t *TrendClassifyingFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	t.InitSelf(hwProps, consumer, t)
}

// kendallTau computes Kendall's tau statistic and its Z-score for the
// sequence xs against index order (i.e. "is xs trending up or down
// over time").
func kendallTau(xs []float64) (tau, z float64) {
	n := len(xs)
	if n < 2 {
		return 0, 0
	}
	concordant, discordant := 0, 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := xs[j] - xs[i]
			switch {
			case d > 0:
				concordant++
			case d < 0:
				discordant++
			}
		}
	}
	total := n * (n - 1) / 2
	if total == 0 {
		return 0, 0
	}
	s := float64(concordant - discordant)
	tau = s / float64(total)
	variance := float64(n*(n-1)*(2*n+5)) / 18.0
	if variance <= 0 {
		return tau, 0
	}
	z = s / math.Sqrt(variance)
	return tau, z
}

func (t *TrendClassifyingFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	present := make(map[int16]bool, len(hs.Fingers))
	for i := range hs.Fingers {
		f := &hs.Fingers[i]
		present[f.TrackingID] = true
		t.history.Push(f.TrackingID, hs.Timestamp, *f)

		samples := t.history.Samples(f.TrackingID)
		if len(samples) < t.MinSamples {
			continue
		}
		xs := make([]float64, len(samples))
		ys := make([]float64, len(samples))
		ps := make([]float64, len(samples))
		ms := make([]float64, len(samples))
		for i, s := range samples {
			xs[i], ys[i] = s.fs.X, s.fs.Y
			ps[i], ms[i] = s.fs.Pressure, s.fs.TouchMajor
		}
		setTrendFlags(f, xs, TrendIncX, TrendDecX)
		setTrendFlags(f, ys, TrendIncY, TrendDecY)
		setTrendFlags(f, ps, TrendIncPressure, TrendDecPressure)
		setTrendFlags(f, ms, TrendIncTouchMajor, TrendDecTouchMajor)
	}
	t.history.Prune(present)

	var dt Duration = NoDeadline
	if t.Next() != nil {
		t.Next().SyncInterpret(hs, &dt)
	}
	*timeout = t.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)
}

func setTrendFlags(f *FingerState, series []float64, incBit, decBit FingerFlags) {
	_, z := kendallTau(series)
	switch {
	case z >= kendallZThreshold:
		f.Flags |= incBit
	case z <= -kendallZThreshold:
		f.Flags |= decBit
	}
}

func (t *TrendClassifyingFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = t.DispatchTimer(now, nil)
}

func (t *TrendClassifyingFilter) Clear() {
	t.FilterInterpreter.Clear()
	t.history.Clear()
}
