package hadronia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rhoEvent has a rho+ decaying into pi+ pi0 with pi0 -> gamma gamma. The
// pi+ points at piParent, which is the rho for a genuine decay.
func rhoEvent(piParent int) *Event {
	return newEvent(
		particle(2, 213, 0, 0.2, 0, 2.0, 0.775),    // 3
		particle(2, 111, 3, 0.1, 0, 0.9, 0.135),    // 4
		photon(4, 0.08, 0.02, 0.5),                 // 5
		photon(4, 0.02, -0.02, 0.4),                // 6
		pion(211, piParent, 0.1, 0, 1.1),           // 7
		scatteredElectron(),                        // 8
		particle(2, 213, 0, -0.3, 0.1, 1.0, 0.775), // 9
	)
}

func rhoRules() FilterRules {
	var rules FilterRules
	rules.AddParticleCondition(ParticleCondition{ParentPid: 213, GrandParentPid: Wildcard})
	rules.AddParticleCondition(ParticleCondition{ParentPid: 111, GrandParentPid: 213})
	rules.AddRelationship(0, 1, ParentIDAsOtherGrandParentID)
	return rules
}

func TestFilterRhoDecay(t *testing.T) {
	sets := mustReconstruct(t, rhoEvent(3), "(211) + (22 22)")
	require.Len(t, sets, 1)

	filtered := Filter(sets, rhoRules())
	require.Len(t, filtered, 1)
	assert.Equal(t, sets[0].IDs(), filtered[0].IDs())
}

func TestFilterRejectsDifferentRho(t *testing.T) {
	// the pi+ comes from the other rho: types still match, indices do not
	sets := mustReconstruct(t, rhoEvent(9), "(211) + (22 22)")
	require.Len(t, sets, 1)
	assert.Equal(t, 213, sets[0][0].ParentPid)

	assert.Empty(t, Filter(sets, rhoRules()))
}

func TestFilterConditionsOnly(t *testing.T) {
	sets := mustReconstruct(t, rhoEvent(9), "(211) + (22 22)")

	var rules FilterRules
	rules.AddParticleCondition(ParticleCondition{ParentPid: 213, GrandParentPid: Wildcard})
	rules.AddParticleCondition(ParticleCondition{ParentPid: 111, GrandParentPid: 213})
	assert.Len(t, Filter(sets, rules), 1)

	rules = FilterRules{}
	rules.AddParticleCondition(ParticleCondition{ParentPid: 113, GrandParentPid: Wildcard})
	assert.Empty(t, Filter(sets, rules))
}

func TestFilterIsIdempotent(t *testing.T) {
	event := rhoEvent(3)
	event.Particles = append(event.Particles, pion(211, 0, 0.3, 0.1, 0.9))
	sets := mustReconstruct(t, event, "(211) + (22 22)")
	require.Len(t, sets, 2)

	once := Filter(sets, rhoRules())
	twice := Filter(once, rhoRules())
	require.Len(t, once, 1)
	assert.Equal(t, once, twice)
}

func TestFilterOutOfRangeSlotRejects(t *testing.T) {
	sets := mustReconstruct(t, rhoEvent(3), "(211) + (22 22)")

	var rules FilterRules
	rules.AddRelationship(0, 2, SameParentID)
	assert.Empty(t, Filter(sets, rules))

	rules = FilterRules{}
	rules.AddRelationship(-1, 0, SameParentID)
	assert.Empty(t, Filter(sets, rules))
}

func TestFilterEmptyRulesKeepEverything(t *testing.T) {
	sets := mustReconstruct(t, rhoEvent(3), "(211) + (22 22)")
	var rules FilterRules
	assert.True(t, rules.IsEmpty())
	assert.Equal(t, sets, Filter(sets, rules))

	rules.AddParticleCondition(AnyParticle())
	assert.False(t, rules.IsEmpty())
	assert.Equal(t, sets, Filter(sets, rules))
}

func TestRelationshipTypes(t *testing.T) {
	first := Hadronium{ParentID: 3, GrandParentID: 1}
	second := Hadronium{ParentID: 5, GrandParentID: 3}
	sibling := Hadronium{ParentID: 3, GrandParentID: 1}

	assert.True(t, ParentIDAsOtherGrandParentID.holds(first, second))
	assert.False(t, GrandParentIDAsOtherParentID.holds(first, second))
	assert.True(t, GrandParentIDAsOtherParentID.holds(second, first))
	assert.True(t, SameParentID.holds(first, sibling))
	assert.True(t, SameGrandParentID.holds(first, sibling))
	assert.False(t, SameGrandParentID.holds(first, second))

	rel := Relationship{First: 0, Second: 1, Types: []RelationshipType{SameParentID, SameGrandParentID}}
	assert.True(t, rel.holds(HadroniumSet{first, sibling}))
	assert.False(t, rel.holds(HadroniumSet{first, second}))
}

func TestRelationshipTypeText(t *testing.T) {
	for _, rt := range []RelationshipType{SameParentID, ParentIDAsOtherGrandParentID, GrandParentIDAsOtherParentID, SameGrandParentID} {
		text, err := rt.MarshalText()
		require.NoError(t, err)
		var parsed RelationshipType
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, rt, parsed)
	}
	var rt RelationshipType
	assert.Error(t, rt.UnmarshalText([]byte("cousins")))
	assert.Equal(t, "UNKNOWN", RelationshipType(12).String())
}
