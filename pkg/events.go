package hadronia

import (
	"go-hep.org/x/hep/fmom"
)

// Status of a particle that leaves the generator (LUND "type" column).
const FinalState = 1

// Particle is one line of a LUND event. Indices are 1-based as in the file.
type Particle struct {
	Index         int
	Lifetime      float64
	Status        int
	Pid           int
	Parent        int
	FirstDaughter int
	Px            float64
	Py            float64
	Pz            float64
	E             float64
	Mass          float64
	Vx            float64
	Vy            float64
	Vz            float64
	// The generator writes lifetime -1 for particles with a diquark ancestor
	DiquarkDescendant bool
}

func (p Particle) P4() fmom.PxPyPzE {
	return fmom.NewPxPyPzE(p.Px, p.Py, p.Pz, p.E)
}

func (p Particle) IsFinal() bool {
	return p.Status == FinalState
}

// Event is a fully materialized LUND event: header plus particle list.
// Particles[0] is the beam lepton and Particles[1] the target.
type Event struct {
	Number             int
	NParticles         int
	TargetMass         float64
	TargetA            int
	TargetPolarization int
	BeamPolarization   int
	BeamType           int
	BeamEnergy         float64
	NucleonID          int
	ProcessID          int
	Weight             float64
	Particles          []Particle
}

// LeptonPid returns the code used to find the scattered lepton.
func (e *Event) LeptonPid() int {
	if e.BeamType != 0 {
		return e.BeamType
	}
	return 11
}

// MarkDiquarkDescendants recomputes DiquarkDescendant from the parent links,
// for inputs that do not encode it in the lifetime column.
func (e *Event) MarkDiquarkDescendants() {
	for i := range e.Particles {
		e.Particles[i].DiquarkDescendant = HasDiquarkAncestor(e, i)
	}
}
