package gestures

// FilterInterpreter is the base behavior for any stage that wraps a
// downstream stage: it tracks the downstream timer deadline alongside
// its own, and multiplexes both into the single timeout the host sees
// (exactly one outstanding timer per chain).
type FilterInterpreter struct {
	baseInterpreter

	next Interpreter

	// localDeadline is the absolute time this stage itself asked to be
	// woken at, or NoDeadlineTime if it has no pending request.
	localDeadline Time
	hasLocal      bool

	// downstreamDeadline mirrors next's outstanding absolute deadline.
	downstreamDeadline Time
	hasDownstream      bool
}

// NewFilterInterpreter wraps next, a downstream stage, under the given
// stage name (used for logging).
func NewFilterInterpreter(name string, next Interpreter) *FilterInterpreter {
	return &FilterInterpreter{baseInterpreter: baseInterpreter{name: name}, next: next}
}

// InitSelf finishes initializing this stage: it records hwProps/consumer
// on the embedded base and, if a downstream stage is wrapped, wires
// that stage's Initialize so gestures it produces arrive at self's
// ConsumeGesture — NOT at FilterInterpreter's own default passthrough.
//
// Go has no virtual dispatch through struct embedding, so every
// concrete filter's Initialize must call this with itself as self:
//
//	func (t *TimestampFilter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
//	    t.InitSelf(hwProps, consumer, t)
//	}
//
// Passing self explicitly is what makes consume_gesture overrides
// actually take effect.
func (f *FilterInterpreter) InitSelf(hwProps *HardwareProperties, consumer GestureConsumer, self Interpreter) {
	f.baseInterpreter.Initialize(hwProps, consumer)
	if f.next != nil {
		f.next.Initialize(hwProps, GestureConsumerFunc(self.ConsumeGesture))
	}
}

// Next returns the wrapped downstream stage.
func (f *FilterInterpreter) Next() Interpreter { return f.next }

// SetNextDeadlineAndReturnTimeout converts an absolute local deadline
// and the downstream stage's relative timeout (as just returned by
// f.next.SyncInterpret/HandleTimer) into the single relative timeout
// this stage should return to its own caller. It also records both
// absolute deadlines so a later HandleTimer call can tell which stage
// the fire belongs to.
func (f *FilterInterpreter) SetNextDeadlineAndReturnTimeout(now Time, localDeadline Time, hasLocalDeadline bool, downstreamTimeout Duration) Duration {
	f.hasLocal = hasLocalDeadline
	if hasLocalDeadline {
		f.localDeadline = localDeadline
	}

	f.hasDownstream = downstreamTimeout.HasDeadline()
	if f.hasDownstream {
		f.downstreamDeadline = now.Add(downstreamTimeout)
	}

	var out Duration = NoDeadline
	if f.hasLocal {
		out = f.localDeadline.Sub(now)
	}
	if f.hasDownstream {
		dsRel := f.downstreamDeadline.Sub(now)
		out = MinDuration(out, dsRel)
	}
	return out
}

// ShouldCallNextTimer reports whether a timer fire at the stage's
// current notion of "now" belongs to the downstream stage rather than
// (or in addition to) this stage, given this stage's own local
// deadline. Local always runs first when both have fired.
func (f *FilterInterpreter) ShouldCallNextTimer(now Time) bool {
	if !f.hasDownstream {
		return false
	}
	if f.hasLocal && f.localDeadline > now {
		// Local hasn't fired yet; downstream only runs if it's the one
		// that's actually due.
		return f.downstreamDeadline <= now
	}
	return f.downstreamDeadline <= now
}

// DispatchTimer runs the dispatch rule: local runs first if both
// local and downstream deadlines have passed; the recomputed combined
// timeout is returned. localHandler is nil if the embedding stage has
// no local timer work to do (pure passthrough filters).
func (f *FilterInterpreter) DispatchTimer(now Time, localHandler func(now Time, timeout *Duration) (ranLocal bool, localOut Duration)) Duration {
	localFired := f.hasLocal && f.localDeadline <= now
	downstreamFired := f.hasDownstream && f.downstreamDeadline <= now

	var localOut Duration = NoDeadline
	if localFired && localHandler != nil {
		var lt Duration = NoDeadline
		ran, out := localHandler(now, &lt)
		if ran {
			localOut = out
		}
		f.hasLocal = localOut.HasDeadline()
		if f.hasLocal {
			f.localDeadline = now.Add(localOut)
		}
	}

	var downstreamOut Duration = NoDeadline
	if downstreamFired && f.next != nil {
		var dt Duration = NoDeadline
		f.next.HandleTimer(now, &dt)
		downstreamOut = dt
		f.hasDownstream = downstreamOut.HasDeadline()
		if f.hasDownstream {
			f.downstreamDeadline = now.Add(downstreamOut)
		}
	}

	out := NoDeadline
	if f.hasLocal {
		out = f.localDeadline.Sub(now)
	}
	if f.hasDownstream {
		out = MinDuration(out, f.downstreamDeadline.Sub(now))
	}
	return out
}

func (f *FilterInterpreter) Clear() {
	f.hasLocal = false
	f.hasDownstream = false
	if f.next != nil {
		f.next.Clear()
	}
}
