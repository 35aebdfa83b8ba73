package hadronia

// NoAncestor is returned for missing or out of range parent links. It can
// not be told apart from an ancestor whose code is 0.
const NoAncestor = 0

// Unknown marks ancestry fields that differ between the members of a composite.
const Unknown = -1

type Ancestry struct {
	ParentID       int
	ParentPid      int
	GrandParentID  int
	GrandParentPid int
}

// particleAt returns the particle with 1-based index idx.
func particleAt(event *Event, idx int) (Particle, bool) {
	if idx <= 0 || idx > len(event.Particles) {
		return Particle{}, false
	}
	return event.Particles[idx-1], true
}

func pidAt(event *Event, idx int) int {
	p, ok := particleAt(event, idx)
	if !ok {
		return NoAncestor
	}
	return p.Pid
}

// ResolveAncestry follows the parent link of a particle up to two levels.
func ResolveAncestry(event *Event, parent int) Ancestry {
	a := Ancestry{ParentID: parent, ParentPid: pidAt(event, parent)}
	if p, ok := particleAt(event, parent); ok {
		a.GrandParentID = p.Parent
		a.GrandParentPid = pidAt(event, p.Parent)
	}
	return a
}

// IsDiquark reports whether pid is a PDG diquark code (|pid| = xy0s).
func IsDiquark(pid int) bool {
	if pid < 0 {
		pid = -pid
	}
	return pid >= 1000 && pid < 10000 && (pid/10)%10 == 0
}

// HasDiquarkAncestor walks the parent chain of Particles[i] (0-based). The
// walk stops after len(Particles) steps or on a repeated index, so malformed
// parent links can not loop forever.
func HasDiquarkAncestor(event *Event, i int) bool {
	if i < 0 || i >= len(event.Particles) {
		return false
	}
	visited := make(map[int]bool, 8)
	idx := event.Particles[i].Parent
	for steps := 0; steps < len(event.Particles); steps++ {
		p, ok := particleAt(event, idx)
		if !ok || visited[idx] {
			return false
		}
		if IsDiquark(p.Pid) {
			return true
		}
		visited[idx] = true
		idx = p.Parent
	}
	return false
}
