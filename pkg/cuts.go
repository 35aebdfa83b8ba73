package hadronia

import (
	"fmt"
	"strings"
)

type CutKind int

const (
	CutMin CutKind = iota
	CutMax
	CutRange
)

var cutKindStrings = []string{
	"MIN",
	"MAX",
	"RANGE",
}

func (k CutKind) String() string {
	if k < CutMin || k > CutRange {
		return "UNKNOWN"
	}
	return cutKindStrings[k]
}

func (k CutKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CutKind) UnmarshalText(data []byte) error {
	s := strings.ToUpper(string(data))
	for i, v := range cutKindStrings {
		if v == s {
			*k = CutKind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid CutKind: %s", string(data))
}

// Cut is a threshold on one named observable. MIN and MAX use their own
// bound; RANGE requires Min <= value <= Max.
type Cut struct {
	Variable string  `json:"variable" toml:"variable"`
	Kind     CutKind `json:"kind" toml:"kind"`
	Min      float64 `json:"min" toml:"min"`
	Max      float64 `json:"max" toml:"max"`
}

func MinCut(variable string, value float64) Cut {
	return Cut{Variable: variable, Kind: CutMin, Min: value}
}

func MaxCut(variable string, value float64) Cut {
	return Cut{Variable: variable, Kind: CutMax, Max: value}
}

func RangeCut(variable string, lo, hi float64) Cut {
	return Cut{Variable: variable, Kind: CutRange, Min: lo, Max: hi}
}

func (c Cut) Pass(value float64) bool {
	switch c.Kind {
	case CutMin:
		return value >= c.Min
	case CutMax:
		return value <= c.Max
	case CutRange:
		return value >= c.Min && value <= c.Max
	}
	return false
}

func (c Cut) String() string {
	switch c.Kind {
	case CutMin:
		return fmt.Sprintf("%s >= %g", c.Variable, c.Min)
	case CutMax:
		return fmt.Sprintf("%s <= %g", c.Variable, c.Max)
	case CutRange:
		return fmt.Sprintf("%g <= %s <= %g", c.Min, c.Variable, c.Max)
	}
	return fmt.Sprintf("%s: %v", c.Variable, c.Kind)
}

// Lookup resolves observables by name.
type Lookup interface {
	Lookup(name string) float64
}

// Cuts are evaluated conjunctively, in order.
type Cuts []Cut

func (cs Cuts) Pass(values Lookup) bool {
	for _, c := range cs {
		if !c.Pass(values.Lookup(c.Variable)) {
			return false
		}
	}
	return true
}

// Validate reports the cuts that reference observables mode does not produce.
func (cs Cuts) Validate(mode Mode) error {
	known := make(map[string]bool)
	for _, name := range mode.Variables() {
		known[name] = true
	}
	for _, c := range cs {
		if !known[c.Variable] {
			return fmt.Errorf("cut %q: variable not produced in %v mode", c.Variable, mode)
		}
		if c.Kind == CutRange && c.Min > c.Max {
			return fmt.Errorf("cut %q: empty range [%g, %g]", c.Variable, c.Min, c.Max)
		}
	}
	return nil
}

// Record is one output row: the event kinematics plus one candidate.
type Record struct {
	EventNumber int
	Event       EventKinematics
	Hadron      HadronKinematics
	Set         HadroniumSet
}

// Lookup checks the event observables first, then the hadron ones.
// Unknown names resolve to 0.
func (r Record) Lookup(name string) float64 {
	if v, ok := r.Event.Value(name); ok {
		return v
	}
	if r.Hadron != nil {
		if v, ok := r.Hadron.Value(name); ok {
			return v
		}
	}
	return 0
}
