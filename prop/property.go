// Package prop implements the named, runtime-tunable parameter system
// that parameterises the gesture pipeline: bools, ints, doubles,
// strings, and fixed-size arrays of those, each optionally bound to an
// external provider and a write-triggered callback.
package prop

// Kind identifies a Property's value type.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindDouble
	KindString
	KindBoolArray
	KindIntArray
	KindDoubleArray
)

// Delegate is notified after a Property's value changes. Stages that
// cache a property's value (rather than reading it every frame) attach
// a Delegate to stay in sync.
//
// Delegates are attached with SetDelegate AFTER the owning Property
// (and its owning stage) is fully constructed. A property must never
// receive a reference to a stage that is still under construction,
// because the delegate could be invoked via a write callback before
// the stage's invariants hold; NewProperty therefore never takes a
// delegate.
type Delegate interface {
	PropertyChanged()
}

// Value is the typed payload of a Property, one field meaningful per
// Kind.
type Value struct {
	Kind        Kind
	Bool        bool
	Int         int
	Double      float64
	String      string
	BoolArray   []bool
	IntArray    []int
	DoubleArray []float64
}

// sameKind reports whether v and other hold the same Kind, which is
// required before a write is accepted.
func (v Value) sameKind(other Value) bool { return v.Kind == other.Kind }

// Equal reports whether v and other hold the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindDouble:
		return v.Double == other.Double
	case KindString:
		return v.String == other.String
	case KindBoolArray:
		if len(v.BoolArray) != len(other.BoolArray) {
			return false
		}
		for i := range v.BoolArray {
			if v.BoolArray[i] != other.BoolArray[i] {
				return false
			}
		}
		return true
	case KindIntArray:
		if len(v.IntArray) != len(other.IntArray) {
			return false
		}
		for i := range v.IntArray {
			if v.IntArray[i] != other.IntArray[i] {
				return false
			}
		}
		return true
	case KindDoubleArray:
		if len(v.DoubleArray) != len(other.DoubleArray) {
			return false
		}
		for i := range v.DoubleArray {
			if v.DoubleArray[i] != other.DoubleArray[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Property is (name, typed value, optional delegate), registered in a
// Registry.
type Property struct {
	name     string
	value    Value
	delegate Delegate

	// writeCB, if set, is invoked with the new value before it is
	// committed; returning false rejects the write (old value kept).
	writeCB func(Value) bool
}

// NewProperty constructs a Property with an initial value. No
// delegate may be supplied here; call SetDelegate once the owner is
// fully constructed.
func NewProperty(name string, initial Value) *Property {
	return &Property{name: name, value: initial}
}

// SetDelegate attaches d, to be notified on every accepted write. Must
// only be called once the object that owns d is fully initialized.
func (p *Property) SetDelegate(d Delegate) { p.delegate = d }

// SetWriteCallback installs a validating/rejecting hook run before a
// write is committed.
func (p *Property) SetWriteCallback(cb func(Value) bool) { p.writeCB = cb }

// Name returns the property's registered name.
func (p *Property) Name() string { return p.name }

// Value returns the current value.
func (p *Property) Value() Value { return p.value }

// Write attempts to set a new value. It is rejected (old value kept,
// PropertyTypeMismatch) if the kind differs from the current value's
// kind, or if a write callback rejects it. On acceptance, the delegate
// (if any) is notified and true is returned so the registry can log a
// PropChange entry.
func (p *Property) Write(v Value) bool {
	if !p.value.sameKind(v) {
		return false
	}
	if p.writeCB != nil && !p.writeCB(v) {
		return false
	}
	p.value = v
	if p.delegate != nil {
		p.delegate.PropertyChanged()
	}
	return true
}

func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int) Value       { return Value{Kind: KindInt, Int: i} }
func DoubleValue(d float64) Value { return Value{Kind: KindDouble, Double: d} }
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }
func DoubleArrayValue(d []float64) Value {
	return Value{Kind: KindDoubleArray, DoubleArray: append([]float64(nil), d...)}
}
func IntArrayValue(d []int) Value {
	return Value{Kind: KindIntArray, IntArray: append([]int(nil), d...)}
}
