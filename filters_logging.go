package gestures

// ActivityLogger is the narrow interface LoggingFilter needs from an
// activity log. It is declared here, not implemented here, so that the
// concrete ring-buffer log (package activitylog) can depend on this
// package's types without this package depending back on it — the
// original's ActivityLog is a leaf with a one-directional dependency on
// the interpreter chain, and this interface preserves that direction.
type ActivityLogger interface {
	LogHardwareState(hs HardwareState)
	LogDebugHardwareStatePre(hs HardwareState)
	LogDebugHardwareStatePost(hs HardwareState)
	LogTimerFire(t Time)
	LogTimerRequest(now Time, timeout Duration)
	LogGesture(g Gesture)
	LogDebugGestureConsume(g Gesture)
	LogDebugGestureProduce(g Gesture)
	LogDebugHandleTimerPre(now Time)
	LogDebugHandleTimerPost(now Time)
	Clear()
}

// LoggingFilter is the topmost stage in every chain: it
// records every inbound frame, outbound gesture, and timer event to an
// attached ActivityLogger, and exposes Dump/ClearLog for a host's
// property-write-triggered dump/clear, without ever blocking the data
// path itself (writing to disk only happens when DumpFunc is invoked
// explicitly by the host, never as a side effect of SyncInterpret).
type LoggingFilter struct {
	FilterInterpreter

	log ActivityLogger

	// DumpFunc, if set, is invoked by Dump(); kept as a hook rather
	// than a direct file write so the filter has no I/O dependency of
	// its own.
	DumpFunc func(log ActivityLogger) error
}

// NewLoggingFilter wraps next and logs to log (may be nil, in which
// case logging is a no-op — useful for tests that don't care about the
// log).
func NewLoggingFilter(next Interpreter, log ActivityLogger) *LoggingFilter {
	return &LoggingFilter{FilterInterpreter: *NewFilterInterpreter("LoggingFilter", next), log: log}
}

func (l *LoggingFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	l.InitSelf(hwProps, consumer, l)
}

func (l *LoggingFilter) SyncInterpret(hs *HardwareState, timeout *Duration) {
	if l.log != nil {
		l.log.LogDebugHardwareStatePre(*hs)
		l.log.LogHardwareState(*hs)
	}

	var dt Duration = NoDeadline
	if l.Next() != nil {
		l.Next().SyncInterpret(hs, &dt)
	}
	*timeout = l.SetNextDeadlineAndReturnTimeout(hs.Timestamp, 0, false, dt)

	if l.log != nil {
		l.log.LogDebugHardwareStatePost(*hs)
		if timeout.HasDeadline() {
			l.log.LogTimerRequest(hs.Timestamp, *timeout)
		}
	}
}

func (l *LoggingFilter) HandleTimer(now Time, timeout *Duration) {
	if l.log != nil {
		l.log.LogTimerFire(now)
		l.log.LogDebugHandleTimerPre(now)
	}
	*timeout = l.DispatchTimer(now, nil)
	if l.log != nil {
		l.log.LogDebugHandleTimerPost(now)
	}
}

func (l *LoggingFilter) ConsumeGesture(g Gesture) {
	if l.log != nil {
		l.log.LogDebugGestureConsume(g)
		l.log.LogGesture(g)
		l.log.LogDebugGestureProduce(g)
	}
	l.ProduceGesture(g)
}

// Dump asks the attached log to write itself out, via DumpFunc.
func (l *LoggingFilter) Dump() error {
	if l.DumpFunc == nil || l.log == nil {
		return nil
	}
	return l.DumpFunc(l.log)
}

// ClearLog empties the attached log without resetting the rest of the
// chain's state.
func (l *LoggingFilter) ClearLog() {
	if l.log != nil {
		l.log.Clear()
	}
}

func (l *LoggingFilter) Clear() {
	l.FilterInterpreter.Clear()
}
