// Package uci implements the text-protocol front door: command parsing,
// the operator-option registry, and search-progress formatting.
// Grounded on ChizhovVadim-CounterGo/uci/uciprotocol.go and option.go.
package uci

import (
	"fmt"
	"strconv"
)

// Option is the common shape every UCI-visible setting implements, so
// the protocol's setoption handler can dispatch without a type switch
// per option.
type Option interface {
	Name() string
	UciString() string
	SetValue(s string) error
}

type BoolOption struct {
	name    string
	value   bool
	Default bool
	OnSet   func(bool)
}

func NewBoolOption(name string, def bool, onSet func(bool)) *BoolOption {
	return &BoolOption{name: name, value: def, Default: def, OnSet: onSet}
}

func (o *BoolOption) Name() string { return o.name }
func (o *BoolOption) Value() bool  { return o.value }
func (o *BoolOption) UciString() string {
	return fmt.Sprintf("option name %s type check default %v", o.name, o.Default)
}
func (o *BoolOption) SetValue(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("uci: bad value %q for %s: %w", s, o.name, err)
	}
	o.value = v
	if o.OnSet != nil {
		o.OnSet(v)
	}
	return nil
}

type IntOption struct {
	name           string
	value          int
	Default, Min, Max int
	OnSet          func(int)
}

func NewIntOption(name string, def, min, max int, onSet func(int)) *IntOption {
	return &IntOption{name: name, value: def, Default: def, Min: min, Max: max, OnSet: onSet}
}

func (o *IntOption) Name() string { return o.name }
func (o *IntOption) Value() int   { return o.value }
func (o *IntOption) UciString() string {
	return fmt.Sprintf("option name %s type spin default %d min %d max %d", o.name, o.Default, o.Min, o.Max)
}
func (o *IntOption) SetValue(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("uci: bad value %q for %s: %w", s, o.name, err)
	}
	if v < o.Min {
		v = o.Min
	}
	if v > o.Max {
		v = o.Max
	}
	o.value = v
	if o.OnSet != nil {
		o.OnSet(v)
	}
	return nil
}

type StringOption struct {
	name    string
	value   string
	Default string
	OnSet   func(string)
}

func NewStringOption(name, def string, onSet func(string)) *StringOption {
	return &StringOption{name: name, value: def, Default: def, OnSet: onSet}
}

func (o *StringOption) Name() string { return o.name }
func (o *StringOption) Value() string { return o.value }
func (o *StringOption) UciString() string {
	var def = o.Default
	if def == "" {
		def = "<empty>"
	}
	return fmt.Sprintf("option name %s type string default %s", o.name, def)
}
func (o *StringOption) SetValue(s string) error {
	o.value = s
	if o.OnSet != nil {
		o.OnSet(s)
	}
	return nil
}

// OptionRegistry is an ordered set of options, matching option.go's flat
// GetOptions() list rather than a map (UCI clients expect stable order
// when printing "option name ..." lines at startup).
type OptionRegistry struct {
	order []string
	byName map[string]Option
}

func NewOptionRegistry() *OptionRegistry {
	return &OptionRegistry{byName: make(map[string]Option)}
}

func (r *OptionRegistry) Add(o Option) {
	if _, exists := r.byName[o.Name()]; !exists {
		r.order = append(r.order, o.Name())
	}
	r.byName[o.Name()] = o
}

func (r *OptionRegistry) All() []Option {
	var out = make([]Option, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

func (r *OptionRegistry) Set(name, value string) error {
	o, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("uci: unknown option %q", name)
	}
	return o.SetValue(value)
}
