package gestures

// GestureConsumer receives gestures produced by a stage. The chain
// wires each stage's upstream neighbor (or, for the topmost stage, the
// façade's external callback) as the consumer passed to Initialize.
type GestureConsumer interface {
	ConsumeGesture(g Gesture)
}

// GestureConsumerFunc adapts a plain function to GestureConsumer.
type GestureConsumerFunc func(Gesture)

func (f GestureConsumerFunc) ConsumeGesture(g Gesture) { f(g) }

// Interpreter is the pipeline-node contract every stage implements.
//
// Initialize is called once, top-down, when the chain is built.
// SyncInterpret is called once per input frame; the stage may mutate
// hwState in place before returning (rewriting tracking ids, filtering
// positions, dropping fingers); *timeout is NoDeadline unless the stage
// wants a future callback. HandleTimer is called when the host's timer
// for this chain fires.
type Interpreter interface {
	Initialize(hwProps *HardwareProperties, consumer GestureConsumer)
	SyncInterpret(hwState *HardwareState, timeout *Duration)
	HandleTimer(now Time, timeout *Duration)
	// ConsumeGesture is the stage's upstream hook: a gesture produced
	// by whatever is wrapped by this stage arrives here first, and the
	// stage may transform, suppress, or just forward it.
	ConsumeGesture(g Gesture)
	// Clear resets the stage to its just-constructed state, discarding
	// all history. Used by the façade's Clear and by tests.
	Clear()
	// Name identifies the stage for logging/debugging.
	Name() string
}

// baseInterpreter supplies the bookkeeping every concrete stage needs:
// the shared immutable hardware properties, and the consumer to which
// ProduceGesture forwards. Concrete stages embed this and override
// ConsumeGesture when they need to transform or suppress gestures
// flowing upward; the default just forwards unchanged.
type baseInterpreter struct {
	name     string
	hwProps  *HardwareProperties
	consumer GestureConsumer
}

func (b *baseInterpreter) Initialize(hwProps *HardwareProperties, consumer GestureConsumer) {
	b.hwProps = hwProps
	b.consumer = consumer
}

func (b *baseInterpreter) Name() string { return b.name }

// ProduceGesture is the stage-internal helper that forwards a gesture
// to whatever consumed this stage (the next stage up, or the façade's
// external sink).
func (b *baseInterpreter) ProduceGesture(g Gesture) {
	if g.NullGesture() || b.consumer == nil {
		return
	}
	b.consumer.ConsumeGesture(g)
}

// ConsumeGesture default: re-emit unchanged. Stages that need to
// rewrite or suppress gestures flowing from their downstream neighbor
// override this.
func (b *baseInterpreter) ConsumeGesture(g Gesture) { b.ProduceGesture(g) }

func (b *baseInterpreter) Clear() {}
