package hadronia

import (
	"io"
	"math"
)

const (
	beamEnergy  = 10.6
	protonMass  = 0.938272
	pionMass    = 0.13957
	electronPid = 11
)

// particle builds a LUND particle with an on-shell energy.
func particle(status, pid, parent int, px, py, pz, mass float64) Particle {
	return Particle{
		Status: status,
		Pid:    pid,
		Parent: parent,
		Px:     px,
		Py:     py,
		Pz:     pz,
		E:      math.Sqrt(px*px + py*py + pz*pz + mass*mass),
		Mass:   mass,
	}
}

// newEvent numbers the particles from 1 and prepends the beam lepton and
// the target at rest.
func newEvent(particles ...Particle) *Event {
	all := []Particle{
		{Status: 21, Pid: electronPid, Pz: beamEnergy, E: beamEnergy},
		{Status: 21, Pid: 2212, E: protonMass, Mass: protonMass},
	}
	all = append(all, particles...)
	for i := range all {
		all[i].Index = i + 1
	}
	return &Event{
		NParticles: len(all),
		TargetMass: protonMass,
		BeamType:   electronPid,
		BeamEnergy: beamEnergy,
		Particles:  all,
	}
}

func scatteredElectron() Particle {
	return particle(FinalState, electronPid, 1, 0.8, 0.2, 7.0, 0)
}

func pion(pid, parent int, px, py, pz float64) Particle {
	return particle(FinalState, pid, parent, px, py, pz, pionMass)
}

func photon(parent int, px, py, pz float64) Particle {
	return particle(FinalState, 22, parent, px, py, pz, 0)
}

// sliceSource replays events, then returns err (io.EOF when nil).
type sliceSource struct {
	events []Event
	err    error
}

func (s *sliceSource) Next() (Event, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return Event{}, s.err
		}
		return Event{}, io.EOF
	}
	event := s.events[0]
	s.events = s.events[1:]
	return event, nil
}
