package hadronia

import (
	"fmt"
	"strings"
)

// Mode selects which hadron observables an analysis produces.
type Mode int

const (
	SingleHadron Mode = iota
	DiHadron
)

var modeStrings = []string{
	"single_hadron",
	"dihadron",
}

func (m Mode) String() string {
	if m < SingleHadron || m > DiHadron {
		return "UNKNOWN"
	}
	return modeStrings[m]
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(data []byte) error {
	s := strings.ToLower(string(data))
	for i, v := range modeStrings {
		if v == s {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid Mode: %s", string(data))
}

// ErrUnknownMode represents a Mode outside the defined values.
type ErrUnknownMode struct {
	Mode Mode
}

func (e *ErrUnknownMode) Error() string {
	return fmt.Sprintf("unknown analysis mode %d", int(e.Mode))
}

// HadronKinematics is the per-candidate result of either mode.
type HadronKinematics interface {
	Mode() Mode
	// Value returns a named observable; ok is false for unknown names.
	Value(name string) (value float64, ok bool)
}

type variable[T any] struct {
	name  string
	value func(T) float64
}

func lookup[T any](vars []variable[T], k T, name string) (float64, bool) {
	for _, v := range vars {
		if v.name == name {
			return v.value(k), true
		}
	}
	return 0, false
}

func names[T any](vars []variable[T]) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.name
	}
	return out
}

var eventVariables = []variable[EventKinematics]{
	{"x", func(k EventKinematics) float64 { return k.X }},
	{"y", func(k EventKinematics) float64 { return k.Y }},
	{"Q2", func(k EventKinematics) float64 { return k.Q2 }},
	{"W", func(k EventKinematics) float64 { return k.W }},
	{"nu", func(k EventKinematics) float64 { return k.Nu }},
	{"gamma", func(k EventKinematics) float64 { return k.Gamma }},
	{"epsilon", func(k EventKinematics) float64 { return k.Epsilon }},
	{"depolA", func(k EventKinematics) float64 { return k.DepolA }},
	{"depolB", func(k EventKinematics) float64 { return k.DepolB }},
	{"depolC", func(k EventKinematics) float64 { return k.DepolC }},
	{"depolV", func(k EventKinematics) float64 { return k.DepolV }},
	{"depolW", func(k EventKinematics) float64 { return k.DepolW }},
	{"beam_polarization", func(k EventKinematics) float64 { return float64(k.BeamPolarization) }},
	{"target_polarization", func(k EventKinematics) float64 { return float64(k.TargetPolarization) }},
}

var singleHadronVariables = []variable[SingleHadronKinematics]{
	{"pt", func(k SingleHadronKinematics) float64 { return k.PT }},
	{"z", func(k SingleHadronKinematics) float64 { return k.Z }},
	{"phi", func(k SingleHadronKinematics) float64 { return k.Phi }},
	{"Mh", func(k SingleHadronKinematics) float64 { return k.Mh }},
	{"xF", func(k SingleHadronKinematics) float64 { return k.XF }},
	{"Mx", func(k SingleHadronKinematics) float64 { return k.Mx }},
	{"parentPid", func(k SingleHadronKinematics) float64 { return float64(k.ParentPid) }},
	{"grandParentPid", func(k SingleHadronKinematics) float64 { return float64(k.GrandParentPid) }},
	{"status", func(k SingleHadronKinematics) float64 { return float64(k.Status) }},
}

var diHadronVariables = []variable[DiHadronKinematics]{
	{"pt1", func(k DiHadronKinematics) float64 { return k.PT1 }},
	{"pt2", func(k DiHadronKinematics) float64 { return k.PT2 }},
	{"pt", func(k DiHadronKinematics) float64 { return k.PT }},
	{"z1", func(k DiHadronKinematics) float64 { return k.Z1 }},
	{"z2", func(k DiHadronKinematics) float64 { return k.Z2 }},
	{"z", func(k DiHadronKinematics) float64 { return k.Z }},
	{"phi_h", func(k DiHadronKinematics) float64 { return k.PhiH }},
	{"phi_RT", func(k DiHadronKinematics) float64 { return k.PhiRT }},
	{"phi_Rperp", func(k DiHadronKinematics) float64 { return k.PhiRperp }},
	{"th", func(k DiHadronKinematics) float64 { return k.Th }},
	{"Mh", func(k DiHadronKinematics) float64 { return k.Mh }},
	{"xF1", func(k DiHadronKinematics) float64 { return k.XF1 }},
	{"xF2", func(k DiHadronKinematics) float64 { return k.XF2 }},
	{"xF", func(k DiHadronKinematics) float64 { return k.XF }},
	{"Mx", func(k DiHadronKinematics) float64 { return k.Mx }},
	{"parentPid1", func(k DiHadronKinematics) float64 { return float64(k.ParentPid1) }},
	{"grandParentPid1", func(k DiHadronKinematics) float64 { return float64(k.GrandParentPid1) }},
	{"status1", func(k DiHadronKinematics) float64 { return float64(k.Status1) }},
	{"parentPid2", func(k DiHadronKinematics) float64 { return float64(k.ParentPid2) }},
	{"grandParentPid2", func(k DiHadronKinematics) float64 { return float64(k.GrandParentPid2) }},
	{"status2", func(k DiHadronKinematics) float64 { return float64(k.Status2) }},
}

func (k EventKinematics) Value(name string) (float64, bool) {
	return lookup(eventVariables, k, name)
}

func (SingleHadronKinematics) Mode() Mode { return SingleHadron }

func (k SingleHadronKinematics) Value(name string) (float64, bool) {
	return lookup(singleHadronVariables, k, name)
}

func (DiHadronKinematics) Mode() Mode { return DiHadron }

func (k DiHadronKinematics) Value(name string) (float64, bool) {
	return lookup(diHadronVariables, k, name)
}

// Variables lists the observables available in mode, event level first.
func (m Mode) Variables() []string {
	vars := names(eventVariables)
	switch m {
	case SingleHadron:
		vars = append(vars, names(singleHadronVariables)...)
	case DiHadron:
		vars = append(vars, names(diHadronVariables)...)
	}
	return vars
}
