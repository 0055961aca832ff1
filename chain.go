package gestures

// DeviceClass selects which concrete filter chain GestureInterpreter
// builds.
type DeviceClass int

const (
	DeviceTouchpad DeviceClass = iota
	DeviceTouchscreen
	DeviceMouse
	DevicePointingStick
	DeviceMultitouchMouse
)

// StackVersion selects between the default (v2) touchpad chain and the
// legacy v1 chain, toggled by the "Touchpad Stack Version" property.
type StackVersion int

const (
	StackV2 StackVersion = iota
	StackV1
)

// GestureInterpreter is the façade a host embeds: it builds the
// concrete filter chain for a device class, owns it, and routes every
// external call (SetHardwareProperties, PushHardwareState, the timer
// callback, property writes) into it.
type GestureInterpreter struct {
	chain   Interpreter
	hwProps HardwareProperties
	log     *LoggingFilter

	metrics  *FingerMetrics
	consumer GestureConsumer

	deviceClass DeviceClass
	stackVer    StackVersion
}

// NewGestureInterpreter builds the chain for class using the default
// (v2) touchpad stack where applicable. log may be nil.
func NewGestureInterpreter(class DeviceClass, log ActivityLogger) *GestureInterpreter {
	return NewGestureInterpreterWithStack(class, StackV2, log)
}

// NewGestureInterpreterWithStack is NewGestureInterpreter with an
// explicit touchpad stack version; stackVer is ignored for non-
// touchpad device classes.
func NewGestureInterpreterWithStack(class DeviceClass, stackVer StackVersion, log ActivityLogger) *GestureInterpreter {
	gi := &GestureInterpreter{deviceClass: class, stackVer: stackVer, metrics: NewFingerMetrics()}
	gi.chain = gi.build(log)
	return gi
}

// BuildChain constructs the device-class chain without a façade
// wrapped around it, for callers (activitylog.Replay, the replay CLI)
// that need to call Initialize themselves to capture produced
// gestures.
func BuildChain(class DeviceClass, stackVer StackVersion, log ActivityLogger) Interpreter {
	gi := &GestureInterpreter{deviceClass: class, stackVer: stackVer, metrics: NewFingerMetrics()}
	return gi.build(log)
}

// build assembles the chain device-class tables.
// Each constructor takes the stage it wraps (its downstream neighbor),
// so the chain is built innermost (terminal) first.
func (gi *GestureInterpreter) build(log ActivityLogger) Interpreter {
	switch gi.deviceClass {
	case DeviceMouse, DevicePointingStick:
		var c Interpreter = NewMouseInterpreter()
		c = NewAccelFilter(c)
		c = NewScalingFilter(c)
		c = NewMetricsFilter(c, gi.metrics)
		c = NewIntegralGestureFilter(c)
		c = NewLoggingFilter(c, log)
		return c

	case DeviceMultitouchMouse:
		var c Interpreter = NewMultitouchMouseInterpreter(gi.metrics)
		c = NewFlingStopFilter(c)
		c = NewClickWiggleFilter(c)
		c = NewLookaheadFilter(c)
		c = NewBoxFilter(c)
		c = NewAccelFilter(c)
		c = NewScalingFilter(c)
		c = NewMetricsFilter(c, gi.metrics)
		c = NewIntegralGestureFilter(c)
		c = NewStuckButtonInhibitorFilter(c)
		c = NewNonLinearityFilter(c)
		c = NewLoggingFilter(c, log)
		return c

	default: // DeviceTouchpad, DeviceTouchscreen
		return gi.buildTouchpadChain(log)
	}
}

func (gi *GestureInterpreter) buildTouchpadChain(log ActivityLogger) Interpreter {
	var c Interpreter = NewImmediateInterpreter(gi.metrics)
	c = NewFlingStopFilter(c)
	c = NewClickWiggleFilter(c)
	c = NewPalmClassifyingFilter(c, gi.metrics)
	if gi.stackVer == StackV1 {
		c = NewIIRFilter(c)
	}
	c = NewLookaheadFilter(c)
	c = NewBoxFilter(c)
	if gi.stackVer == StackV1 {
		c = NewSensorJumpFilter(c)
	}
	c = NewStationaryWiggleFilter(c)
	c = NewAccelFilter(c)
	if gi.stackVer == StackV1 {
		c = NewSplitCorrectingFilter(c)
	}
	c = NewTrendClassifyingFilter(c)
	c = NewMetricsFilter(c, gi.metrics)
	c = NewScalingFilter(c)
	c = NewFingerMergeFilter(c)
	c = NewStuckButtonInhibitorFilter(c)
	c = NewHapticButtonGeneratorFilter(c)
	if gi.stackVer == StackV1 {
		c = NewT5R2CorrectingFilter(c)
		c = NewNonLinearityFilter(c)
	}
	c = NewTimestampFilter(c)
	c = NewLoggingFilter(c, log)
	return c
}

// SetHardwareProperties stores hwProps (immutable for the chain's
// lifetime ) and initializes the chain, wiring consumer
// as the external gesture sink.
func (gi *GestureInterpreter) SetHardwareProperties(hwProps HardwareProperties, consumer GestureConsumer) {
	gi.hwProps = hwProps
	gi.consumer = consumer
	gi.chain.Initialize(&gi.hwProps, consumer)
	if lf, ok := gi.chain.(*LoggingFilter); ok {
		gi.log = lf
	}
}

// PushHardwareState drives the chain with one frame. The returned Duration is NoDeadline or the
// number of seconds until the host should call HandleTimer.
func (gi *GestureInterpreter) PushHardwareState(hs *HardwareState) Duration {
	var timeout Duration = NoDeadline
	gi.chain.SyncInterpret(hs, &timeout)
	return timeout
}

// HandleTimer drives the chain's single outstanding timer.
func (gi *GestureInterpreter) HandleTimer(now Time) Duration {
	var timeout Duration = NoDeadline
	gi.chain.HandleTimer(now, &timeout)
	return timeout
}

// Clear resets every stage in the chain to its just-constructed state
// and discards the activity log.
func (gi *GestureInterpreter) Clear() {
	gi.chain.Clear()
}

// Dump asks the attached activity log (if any) to write itself out.
func (gi *GestureInterpreter) Dump() error {
	if gi.log == nil {
		return nil
	}
	return gi.log.Dump()
}

// ClearLog empties the attached activity log without resetting the
// rest of the chain's state.
func (gi *GestureInterpreter) ClearLog() {
	if gi.log != nil {
		gi.log.ClearLog()
	}
}

// Chain exposes the underlying interpreter chain, mainly for
// activitylog.Replay and tests that need to drive it directly.
func (gi *GestureInterpreter) Chain() Interpreter { return gi.chain }

// HardwareProperties returns the properties the chain was initialized
// with.
func (gi *GestureInterpreter) HardwareProperties() HardwareProperties { return gi.hwProps }
