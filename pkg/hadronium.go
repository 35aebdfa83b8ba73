package hadronia

import (
	"fmt"
	"strings"

	"go-hep.org/x/hep/fmom"
	"golang.org/x/exp/slices"
)

// Hadronium is a reconstructed particle, either a single final-state
// particle or a composite of several. IDs holds the 1-based indices of the
// underlying event particles.
type Hadronium struct {
	Pid            int
	Status         int
	P4             fmom.PxPyPzE
	IDs            []int
	ParentID       int
	ParentPid      int
	GrandParentID  int
	GrandParentPid int
}

// NewHadronium builds an elementary hadronium from Particles[i].
func NewHadronium(event *Event, i int) Hadronium {
	p := event.Particles[i]
	a := ResolveAncestry(event, p.Parent)
	return Hadronium{
		Pid:            p.Pid,
		Status:         p.Status,
		P4:             p.P4(),
		IDs:            []int{i + 1},
		ParentID:       a.ParentID,
		ParentPid:      a.ParentPid,
		GrandParentID:  a.GrandParentID,
		GrandParentPid: a.GrandParentPid,
	}
}

// Combine sums the four-momenta of hs into a composite with code 0. The
// ancestry fields and the status keep their value only when every member
// agrees on it, otherwise they are set to Unknown.
func Combine(hs ...Hadronium) Hadronium {
	if len(hs) == 1 {
		return hs[0].clone()
	}
	var sum fmom.PxPyPzE
	ids := make([]int, 0, len(hs))
	for _, h := range hs {
		p4 := h.P4
		fmom.IAdd(&sum, &p4)
		ids = append(ids, h.IDs...)
	}
	slices.Sort(ids)
	return Hadronium{
		Pid:            0,
		Status:         common(hs, func(h Hadronium) int { return h.Status }),
		P4:             sum,
		IDs:            ids,
		ParentID:       common(hs, func(h Hadronium) int { return h.ParentID }),
		ParentPid:      common(hs, func(h Hadronium) int { return h.ParentPid }),
		GrandParentID:  common(hs, func(h Hadronium) int { return h.GrandParentID }),
		GrandParentPid: common(hs, func(h Hadronium) int { return h.GrandParentPid }),
	}
}

func common(hs []Hadronium, field func(Hadronium) int) int {
	if len(hs) == 0 {
		return Unknown
	}
	v := field(hs[0])
	for _, h := range hs[1:] {
		if field(h) != v {
			return Unknown
		}
	}
	return v
}

func (h Hadronium) clone() Hadronium {
	h.IDs = slices.Clone(h.IDs)
	return h
}

func (h Hadronium) Mass() float64 {
	return h.P4.M()
}

func (h Hadronium) String() string {
	return fmt.Sprintf("pid=%d ids=%v parent=%d(%d) grandparent=%d(%d) p4=(%.4f, %.4f, %.4f, %.4f)",
		h.Pid, h.IDs, h.ParentID, h.ParentPid, h.GrandParentID, h.GrandParentPid,
		h.P4.Px(), h.P4.Py(), h.P4.Pz(), h.P4.E())
}

// HadroniumSet is one candidate reconstruction of an event, one slot per
// pattern group.
type HadroniumSet []Hadronium

// IDs returns the sorted union of the underlying particle indices.
func (s HadroniumSet) IDs() []int {
	var ids []int
	for _, h := range s {
		ids = append(ids, h.IDs...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Disjoint reports whether no particle index is used by two slots.
func (s HadroniumSet) Disjoint() bool {
	n := 0
	for _, h := range s {
		n += len(h.IDs)
	}
	return len(s.IDs()) == n
}

// Combined merges every slot into a single hadronium.
func (s HadroniumSet) Combined() Hadronium {
	return Combine(s...)
}

func (s HadroniumSet) key() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

func (s HadroniumSet) String() string {
	lines := make([]string, len(s))
	for i, h := range s {
		lines[i] = fmt.Sprintf("\t[%d] %s", i, h)
	}
	return strings.Join(lines, "\n")
}
