package activitylog

import (
	"encoding/json"
	"fmt"

	"github.com/8ff/gestures"
	"github.com/8ff/gestures/prop"
)

// MalformedLogError is returned by Decode when the document is
// not a well-formed activity log; Index names the offending entry.
type MalformedLogError struct {
	Index int
	Err   error
}

func (e *MalformedLogError) Error() string {
	return fmt.Sprintf("malformed log entry %d: %v", e.Index, e.Err)
}

func (e *MalformedLogError) Unwrap() error { return e.Err }

// ParsedLog is a decoded activity log, ready either for inspection or
// for replay through a fresh chain.
type ParsedLog struct {
	HardwareProperties gestures.HardwareProperties
	Properties         map[string]prop.Value
	Entries            []Entry
}

// Decode parses an encoded log back into entries, for the round-trip
// invariant in ("parse(encode(log)) ≡ log"). This path does
// NOT carry the rel_x/rel_y swap quirk below — that quirk is specific
// to ActivityReplay's reconstruction of mouse hardware states, not to
// the log format itself.
func Decode(data []byte) (*ParsedLog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedLogError{Index: -1, Err: err}
	}
	out := &ParsedLog{
		HardwareProperties: doc.HardwareProperties.toHWProps(),
		Properties:         make(map[string]prop.Value, len(doc.Properties)),
		Entries:            make([]Entry, len(doc.Entries)),
	}
	for name, raw := range doc.Properties {
		out.Properties[name] = jsonPayloadToValue(raw)
	}
	for i, ej := range doc.Entries {
		e, err := fromEntryJSON(ej)
		if err != nil {
			return nil, &MalformedLogError{Index: i, Err: err}
		}
		out.Entries[i] = e
	}
	return out, nil
}

func jsonPayloadToValue(raw interface{}) prop.Value {
	switch v := raw.(type) {
	case bool:
		return prop.BoolValue(v)
	case float64:
		return prop.DoubleValue(v)
	case string:
		return prop.StringValue(v)
	case []interface{}:
		// Best-effort: numeric arrays decode as a double array; the
		// replay corpus never mixes kinds within one array property.
		arr := make([]float64, len(v))
		for i, e := range v {
			if f, ok := e.(float64); ok {
				arr[i] = f
			}
		}
		return prop.DoubleArrayValue(arr)
	default:
		return prop.Value{}
	}
}

func fromEntryJSON(ej entryJSON) (Entry, error) {
	kind, ok := entryKindByName[ej.Type]
	if !ok {
		return Entry{}, fmt.Errorf("unknown entry type %q", ej.Type)
	}
	e := Entry{Kind: kind}
	switch kind {
	case EntryHardwareState, EntryDebugHardwareStatePre, EntryDebugHardwareStatePost:
		if ej.HWState == nil {
			return Entry{}, fmt.Errorf("%s entry missing hwState", ej.Type)
		}
		e.HWState = ej.HWState.toHWState()
	case EntryTimerFire, EntryDebugHandleTimerPre, EntryDebugHandleTimerPost:
		e.TimerTime = gestures.Time(ej.TimerTime)
	case EntryTimerRequest:
		e.TimerTime = gestures.Time(ej.TimerTime)
		e.TimerTimeout = gestures.Duration(ej.TimerTimeout)
	case EntryGesture, EntryDebugGestureConsume, EntryDebugGestureProduce:
		if ej.Gesture == nil {
			return Entry{}, fmt.Errorf("%s entry missing gesture", ej.Type)
		}
		e.Gesture = ej.Gesture.toGesture()
	case EntryPropChange:
		if ej.Prop == nil {
			return Entry{}, fmt.Errorf("propChange entry missing propChange payload")
		}
		e.Prop = PropChange{Name: ej.Prop.Name, Value: jsonValueOfKind(prop.Kind(ej.Prop.Kind), ej.Prop.Value)}
	case EntryAccelDebug, EntryTimestampDebug:
		e.Debug1, e.Debug2 = ej.Debug1, ej.Debug2
	}
	return e, nil
}

func jsonValueOfKind(k prop.Kind, raw interface{}) prop.Value {
	v := jsonPayloadToValue(raw)
	v.Kind = k
	return v
}

// Replay parses a recorded log and feeds it through a freshly built
// chain to verify behavior.
type Replay struct {
	Chain    gestures.Interpreter
	HWProps  gestures.HardwareProperties
	Produced []gestures.Gesture
}

// NewReplay wires chain as the interpreter under test; chain.Initialize
// is called with a consumer that appends every produced gesture to
// Produced.
func NewReplay(chain gestures.Interpreter, hwProps gestures.HardwareProperties) *Replay {
	r := &Replay{Chain: chain, HWProps: hwProps}
	chain.Initialize(&r.HWProps, gestures.GestureConsumerFunc(func(g gestures.Gesture) {
		r.Produced = append(r.Produced, g)
	}))
	return r
}

// Run drives every HardwareState and timer-fire entry in log, in
// order, through r.Chain. It always returns nil: log is already
// decoded, and a malformed document is reported by Decode
// (MalformedLogError) before Run is reached.
func (r *Replay) Run(log *ParsedLog) error {
	for _, e := range log.Entries {
		r.Step(e)
	}
	return nil
}

// Step drives a single entry through the chain and returns the slice
// of gestures that entry produced (a view into Produced). Entry kinds
// other than HardwareState and TimerFire are inert during replay.
func (r *Replay) Step(e Entry) []gestures.Gesture {
	before := len(r.Produced)
	switch e.Kind {
	case EntryHardwareState:
		hs := replayMouseFieldSwap(e.HWState)
		var timeout gestures.Duration
		r.Chain.SyncInterpret(&hs, &timeout)
	case EntryTimerFire:
		var timeout gestures.Duration
		r.Chain.HandleTimer(e.TimerTime, &timeout)
	}
	return r.Produced[before:]
}

// replayMouseFieldSwap preserves a long-standing replay quirk: for
// finger-less (mouse) frames, rel_x is assigned from the decoded rel_y
// field. Deliberately kept as-is — an unknown amount of recorded-log
// tooling depends on the as-observed behavior.
func replayMouseFieldSwap(hs gestures.HardwareState) gestures.HardwareState {
	if len(hs.Fingers) == 0 {
		hs.RelX = hs.RelY
	}
	return hs
}
