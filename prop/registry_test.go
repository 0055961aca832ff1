package prop

import "testing"

type fakeLogger struct {
	names []string
	vals  []Value
}

func (f *fakeLogger) LogPropChange(name string, v Value) {
	f.names = append(f.names, name)
	f.vals = append(f.vals, v)
}

func TestRegistryWriteLogsOnAcceptance(t *testing.T) {
	r := NewRegistry()
	r.RegisterInt("tap_timeout_ms", 200)
	log := &fakeLogger{}
	r.SetActivityLog(log)

	found, accepted := r.Write("tap_timeout_ms", IntValue(50))
	if !found || !accepted {
		t.Fatalf("write should be found and accepted, got found=%v accepted=%v", found, accepted)
	}
	if len(log.names) != 1 || log.names[0] != "tap_timeout_ms" {
		t.Fatalf("expected exactly one logged change, got %v", log.names)
	}
}

// TestRegistryWriteIdempotence: writing the same value twice produces
// exactly one PropChange entry; the second write is accepted but not
// re-logged.
func TestRegistryWriteIdempotence(t *testing.T) {
	r := NewRegistry()
	r.RegisterBool("tap_enable", true)
	log := &fakeLogger{}
	r.SetActivityLog(log)

	if _, accepted := r.Write("tap_enable", BoolValue(false)); !accepted {
		t.Fatalf("first write should be accepted")
	}
	if _, accepted := r.Write("tap_enable", BoolValue(false)); !accepted {
		t.Fatalf("same-value rewrite should still be accepted")
	}
	if len(log.names) != 1 {
		t.Fatalf("expected exactly one logged change, got %d", len(log.names))
	}
}

func TestRegistryWriteUnknownName(t *testing.T) {
	r := NewRegistry()
	found, accepted := r.Write("does_not_exist", IntValue(1))
	if found || accepted {
		t.Fatalf("write to an unregistered name should report found=false")
	}
}

func TestRegistryWriteTypeMismatchKeepsOldValue(t *testing.T) {
	r := NewRegistry()
	p := r.RegisterDouble("accel_gain", 1.5)
	found, accepted := r.Write("accel_gain", StringValue("oops"))
	if !found || accepted {
		t.Fatalf("type-mismatched write should be found but rejected")
	}
	if p.Value().Double != 1.5 {
		t.Fatalf("rejected write should not change the stored value")
	}
}

type fakeHost struct{ created []string }

func (h *fakeHost) Create(p *Property) { h.created = append(h.created, p.Name()) }

func TestRegistryHostProviderNotifiedOnRegister(t *testing.T) {
	r := NewRegistry()
	host := &fakeHost{}
	r.SetHostProvider(host)
	r.RegisterBool("some_flag", false)
	if len(host.created) != 1 || host.created[0] != "some_flag" {
		t.Fatalf("host provider should be notified of the new property, got %v", host.created)
	}
}

func TestRegistryLookupAndAll(t *testing.T) {
	r := NewRegistry()
	r.RegisterInt("a", 1)
	r.RegisterInt("b", 2)
	if r.Lookup("a") == nil {
		t.Fatalf("Lookup should find a registered property")
	}
	if r.Lookup("missing") != nil {
		t.Fatalf("Lookup should return nil for an unregistered name")
	}
	if len(r.All()) != 2 {
		t.Fatalf("All() = %d properties, want 2", len(r.All()))
	}
}
