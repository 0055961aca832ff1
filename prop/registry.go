package prop

import "sync"

// ChangeLogger receives a PropChange notification whenever a property
// write is accepted. activitylog.ActivityLog implements this; the
// registry holds it as a plain interface value rather than importing
// the activitylog package, so logging stays an optional, late-bound
// collaborator.
type ChangeLogger interface {
	LogPropChange(name string, v Value)
}

// HostProvider is the host-supplied creation/registration hook used by
// a façade embedder: when the core
// registers a new property, the host gets a chance to create its own
// mirrored storage (e.g. a dconf/registry key) and push overrides back
// in.
type HostProvider interface {
	// Create is invoked once per newly registered property. The host
	// may call Property.Write to seed an override before returning.
	Create(p *Property)
}

// Registry is a set of registered Property objects indexed by name.
type Registry struct {
	mu    sync.Mutex
	props map[string]*Property
	log   ChangeLogger
	host  HostProvider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{props: make(map[string]*Property)}
}

// SetActivityLog attaches (or detaches, with nil) the log that accepted
// writes are reported to.
func (r *Registry) SetActivityLog(log ChangeLogger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = log
}

// SetHostProvider attaches the host's property provider.
func (r *Registry) SetHostProvider(h HostProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.host = h
}

// Register adds a new property under its own name. If a property of
// that name already exists, it is replaced (the last registration
// wins) — stages are expected to register distinct names.
func (r *Registry) Register(p *Property) *Property {
	r.mu.Lock()
	r.props[p.name] = p
	host := r.host
	r.mu.Unlock()
	if host != nil {
		host.Create(p)
	}
	return p
}

// RegisterBool registers and returns a new bool property.
func (r *Registry) RegisterBool(name string, initial bool) *Property {
	return r.Register(NewProperty(name, BoolValue(initial)))
}

// RegisterInt registers and returns a new int property.
func (r *Registry) RegisterInt(name string, initial int) *Property {
	return r.Register(NewProperty(name, IntValue(initial)))
}

// RegisterDouble registers and returns a new double property.
func (r *Registry) RegisterDouble(name string, initial float64) *Property {
	return r.Register(NewProperty(name, DoubleValue(initial)))
}

// RegisterString registers and returns a new string property.
func (r *Registry) RegisterString(name string, initial string) *Property {
	return r.Register(NewProperty(name, StringValue(initial)))
}

// RegisterDoubleArray registers and returns a new double-array
// property.
func (r *Registry) RegisterDoubleArray(name string, initial []float64) *Property {
	return r.Register(NewProperty(name, DoubleArrayValue(initial)))
}

// Lookup returns the named property, or nil.
func (r *Registry) Lookup(name string) *Property {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.props[name]
}

// Write looks up name and attempts the write; it reports whether the
// property exists and whether the write was accepted. On acceptance the
// change is reported to the attached ActivityLog, if any — unless the
// new value equals the stored one. A same-value rewrite is accepted but
// logged only once: writing the same value twice leaves exactly one
// PropChange entry in the log.
func (r *Registry) Write(name string, v Value) (found, accepted bool) {
	r.mu.Lock()
	p := r.props[name]
	log := r.log
	r.mu.Unlock()
	if p == nil {
		return false, false
	}
	unchanged := p.Value().Equal(v)
	if !p.Write(v) {
		return true, false
	}
	if log != nil && !unchanged {
		log.LogPropChange(name, v)
	}
	return true, true
}

// All returns every registered property, for dump/debug purposes.
func (r *Registry) All() []*Property {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Property, 0, len(r.props))
	for _, p := range r.props {
		out = append(out, p)
	}
	return out
}
