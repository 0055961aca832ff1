package gestures

// MetricsFilter updates the shared FingerMetrics tracker every frame
// and emits a Metrics gesture summarizing whether meaningful movement
// occurred since the previous frame, for host-side telemetry.
type MetricsFilter struct {
	FilterInterpreter

	metrics *FingerMetrics

	// MovementThreshold: total per-frame travel (mm) across all
	// fingers above which the frame counts as "movement".
	MovementThreshold float64

	lastFingers map[int16]FingerState
}

func NewMetricsFilter(next Interpreter, metrics *FingerMetrics) *MetricsFilter {
	return &MetricsFilter{
		FilterInterpreter: *NewFilterInterpreter("MetricsFilter", next),
		metrics:           metrics,
		MovementThreshold: 0.5,
		lastFingers:       make(map[int16]FingerState),
	}
}

func (m *MetricsFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	m.InitSelf(hwProps, consumer, m)
}

func (m *MetricsFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	m.metrics.Update(hs)

	total := 0.0
	cur := make(map[int16]FingerState, len(hs.Fingers))
	for _, f := range hs.Fingers {
		cur[f.TrackingID] = f
		if prev, ok := m.lastFingers[f.TrackingID]; ok {
			dx, dy := f.X-prev.X, f.Y-prev.Y
			total += dx*dx + dy*dy
		}
	}
	m.lastFingers = cur

	var dt Duration = NoDeadline
	if m.Next() != nil {
		m.Next().SyncInterpret(hs, &dt)
	}
	*timeout = m.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)

	if len(hs.Fingers) > 0 {
		typ := MetricsTypeNoMovement
		if total >= m.MovementThreshold*m.MovementThreshold {
			typ = MetricsTypeMovement
		}
		m.ProduceGesture(NewMetricsGesture(hs.Timestamp, hs.Timestamp, typ, total, float64(len(hs.Fingers))))
	}
}

func (m *MetricsFilter) HandleTimer(now Time, timeout *Duration) {
	*timeout = m.DispatchTimer(now, nil)
}

func (m *MetricsFilter) Clear() {
	m.FilterInterpreter.Clear()
	m.lastFingers = make(map[int16]FingerState)
}
