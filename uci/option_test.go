package uci

import "testing"

func TestBoolOptionUciStringAndSetValue(t *testing.T) {
	var got bool
	var o = NewBoolOption("Ponder", false, func(v bool) { got = v })
	if o.UciString() != "option name Ponder type check default false" {
		t.Fatalf("UciString() = %q", o.UciString())
	}
	if err := o.SetValue("true"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !got || !o.Value() {
		t.Fatal("SetValue(true) did not update value or invoke OnSet")
	}
	if err := o.SetValue("not-a-bool"); err == nil {
		t.Fatal("SetValue accepted an invalid bool")
	}
}

func TestIntOptionClampsToRange(t *testing.T) {
	var o = NewIntOption("Hash", 16, 1, 1024, nil)
	if err := o.SetValue("5000"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if o.Value() != 1024 {
		t.Fatalf("Value() = %d, want clamped to max 1024", o.Value())
	}
	if err := o.SetValue("-5"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if o.Value() != 1 {
		t.Fatalf("Value() = %d, want clamped to min 1", o.Value())
	}
}

func TestStringOptionDefaultEmptyRendersPlaceholder(t *testing.T) {
	var o = NewStringOption("SyzygyPath", "", nil)
	if o.UciString() != "option name SyzygyPath type string default <empty>" {
		t.Fatalf("UciString() = %q", o.UciString())
	}
}

func TestOptionRegistryPreservesInsertionOrder(t *testing.T) {
	var r = NewOptionRegistry()
	r.Add(NewIntOption("Threads", 1, 1, 128, nil))
	r.Add(NewIntOption("Hash", 16, 1, 65536, nil))
	r.Add(NewBoolOption("Ponder", false, nil))

	var all = r.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d options, want 3", len(all))
	}
	if all[0].Name() != "Threads" || all[1].Name() != "Hash" || all[2].Name() != "Ponder" {
		t.Fatalf("All() order = %v, want insertion order", []string{all[0].Name(), all[1].Name(), all[2].Name()})
	}
}

func TestOptionRegistrySetUnknownOption(t *testing.T) {
	var r = NewOptionRegistry()
	if err := r.Set("DoesNotExist", "1"); err == nil {
		t.Fatal("Set on an unregistered option returned nil error")
	}
}

func TestOptionRegistrySetDispatchesToOnSet(t *testing.T) {
	var r = NewOptionRegistry()
	var seen int
	r.Add(NewIntOption("MultiPV", 1, 1, 500, func(v int) { seen = v }))
	if err := r.Set("MultiPV", "3"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if seen != 3 {
		t.Fatalf("OnSet saw %d, want 3", seen)
	}
}
