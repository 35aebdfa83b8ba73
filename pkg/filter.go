package hadronia

import (
	"fmt"
)

// Wildcard accepts any parent or grandparent code in a ParticleCondition.
const Wildcard = -1

// ParticleCondition constrains the ancestry codes of one slot.
type ParticleCondition struct {
	ParentPid      int
	GrandParentPid int
}

// AnyParticle returns a condition that accepts every hadronium.
func AnyParticle() ParticleCondition {
	return ParticleCondition{ParentPid: Wildcard, GrandParentPid: Wildcard}
}

func (c ParticleCondition) Matches(h Hadronium) bool {
	if c.ParentPid != Wildcard && h.ParentPid != c.ParentPid {
		return false
	}
	if c.GrandParentPid != Wildcard && h.GrandParentPid != c.GrandParentPid {
		return false
	}
	return true
}

type RelationshipType int

const (
	SameParentID RelationshipType = iota
	ParentIDAsOtherGrandParentID
	GrandParentIDAsOtherParentID
	SameGrandParentID
)

var relationshipStrings = []string{
	"same_parent",
	"parent_is_other_grandparent",
	"grandparent_is_other_parent",
	"same_grandparent",
}

func (t RelationshipType) String() string {
	if t < SameParentID || t > SameGrandParentID {
		return "UNKNOWN"
	}
	return relationshipStrings[t]
}

func (t RelationshipType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *RelationshipType) UnmarshalText(data []byte) error {
	s := string(data)
	for i, v := range relationshipStrings {
		if v == s {
			*t = RelationshipType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid RelationshipType: %s", s)
}

// holds compares the ancestry indices of two hadronia.
func (t RelationshipType) holds(first, second Hadronium) bool {
	switch t {
	case SameParentID:
		return first.ParentID == second.ParentID
	case ParentIDAsOtherGrandParentID:
		return first.ParentID == second.GrandParentID
	case GrandParentIDAsOtherParentID:
		return first.GrandParentID == second.ParentID
	case SameGrandParentID:
		return first.GrandParentID == second.GrandParentID
	}
	return false
}

// Relationship requires every listed type to hold between slots First and Second.
type Relationship struct {
	First  int                `json:"first" toml:"first"`
	Second int                `json:"second" toml:"second"`
	Types  []RelationshipType `json:"types" toml:"types"`
}

func (r Relationship) holds(set HadroniumSet) bool {
	if r.First < 0 || r.Second < 0 || r.First >= len(set) || r.Second >= len(set) {
		return false
	}
	for _, t := range r.Types {
		if !t.holds(set[r.First], set[r.Second]) {
			return false
		}
	}
	return true
}

// FilterRules are built once per analysis and only read afterwards.
// Conditions are aligned with the hadronium set slots.
type FilterRules struct {
	Conditions    []ParticleCondition
	Relationships []Relationship
}

func (r *FilterRules) AddParticleCondition(c ParticleCondition) {
	r.Conditions = append(r.Conditions, c)
}

func (r *FilterRules) AddRelationship(first, second int, types ...RelationshipType) {
	r.Relationships = append(r.Relationships, Relationship{First: first, Second: second, Types: types})
}

func (r FilterRules) IsEmpty() bool {
	return len(r.Conditions) == 0 && len(r.Relationships) == 0
}

func (r FilterRules) Accepts(set HadroniumSet) bool {
	for i, h := range set {
		if i < len(r.Conditions) && !r.Conditions[i].Matches(h) {
			return false
		}
	}
	for _, rel := range r.Relationships {
		if !rel.holds(set) {
			return false
		}
	}
	return true
}

// Filter returns the sets accepted by rules, in input order.
func Filter(sets []HadroniumSet, rules FilterRules) []HadroniumSet {
	var filtered []HadroniumSet
	for _, set := range sets {
		if rules.Accepts(set) {
			filtered = append(filtered, set)
		}
	}
	return filtered
}
