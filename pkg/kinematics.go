package hadronia

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

type EventKinematics struct {
	X                  float64
	Y                  float64
	Q2                 float64
	W                  float64
	Nu                 float64
	Gamma              float64
	Epsilon            float64
	DepolA             float64
	DepolB             float64
	DepolC             float64
	DepolV             float64
	DepolW             float64
	BeamPolarization   int
	TargetPolarization int
}

type SingleHadronKinematics struct {
	PT             float64
	Z              float64
	Phi            float64
	Mh             float64
	XF             float64
	Mx             float64
	ParentPid      int
	GrandParentPid int
	Status         int
}

type DiHadronKinematics struct {
	PT1             float64
	PT2             float64
	PT              float64
	Z1              float64
	Z2              float64
	Z               float64
	PhiH            float64
	PhiRT           float64
	PhiRperp        float64
	Th              float64
	Mh              float64
	XF1             float64
	XF2             float64
	XF              float64
	Mx              float64
	ParentPid1      int
	GrandParentPid1 int
	Status1         int
	ParentPid2      int
	GrandParentPid2 int
	Status2         int
}

// Calculator computes DIS kinematics for one event. Angles are measured
// around the virtual photon direction, from the plane spanned by q and the
// incoming lepton, for both single hadrons and pairs.
type Calculator struct {
	lepton    fmom.PxPyPzE
	target    fmom.PxPyPzE
	scattered fmom.PxPyPzE
	q         fmom.PxPyPzE
	// boost from the lab into the photon-target rest frame
	comBoost r3.Vec
	w        float64

	beamPolarization   int
	targetPolarization int
}

func NewCalculator(event *Event) (*Calculator, error) {
	if len(event.Particles) < 2 {
		return nil, ErrShortEvent
	}
	c := &Calculator{
		lepton:             event.Particles[0].P4(),
		target:             event.Particles[1].P4(),
		beamPolarization:   event.BeamPolarization,
		targetPolarization: event.TargetPolarization,
	}
	found := false
	leptonPid := event.LeptonPid()
	for _, p := range event.Particles {
		if p.Pid == leptonPid && p.IsFinal() {
			c.scattered = p.P4()
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoScatteredLepton
	}
	c.q = sub(&c.lepton, &c.scattered)

	com := add(&c.q, &c.target)
	c.comBoost = r3.Scale(-1, fmom.BoostOf(&com))
	c.w = math.Sqrt(fmom.Dot(&c.target, &c.target) + 2*fmom.Dot(&c.target, &c.q) + fmom.Dot(&c.q, &c.q))
	return c, nil
}

// Q returns the virtual photon four-momentum.
func (c *Calculator) Q() fmom.PxPyPzE {
	return c.q
}

func (c *Calculator) Event() EventKinematics {
	q2 := -fmom.Dot(&c.q, &c.q)
	qP := fmom.Dot(&c.q, &c.target)
	y := qP / fmom.Dot(&c.lepton, &c.target)
	x := q2 / (2 * qP)
	m := c.target.M()

	ek := EventKinematics{
		X:                  x,
		Y:                  y,
		Q2:                 q2,
		W:                  c.w,
		BeamPolarization:   c.beamPolarization,
		TargetPolarization: c.targetPolarization,
	}
	if m > 0 {
		ek.Nu = qP / m
	}
	if q2 > 0 {
		ek.Gamma = 2 * m * x / math.Sqrt(q2)
	}
	g2y2 := ek.Gamma * ek.Gamma * y * y / 4
	ek.Epsilon = (1 - y - g2y2) / (1 - y + y*y/2 + g2y2)
	if ek.Epsilon != 1 {
		eps := ek.Epsilon
		a := y * y / (2 * (1 - eps))
		ek.DepolA = a
		ek.DepolB = a * eps
		ek.DepolC = a * math.Sqrt(1-eps*eps)
		ek.DepolV = a * math.Sqrt(2*eps*(1+eps))
		ek.DepolW = a * math.Sqrt(2*eps*(1-eps))
	}
	return ek
}

// SingleHadron computes one entry per set, treating all slots of a set as
// a single hadron.
func (c *Calculator) SingleHadron(sets []HadroniumSet) []SingleHadronKinematics {
	kinematics := make([]SingleHadronKinematics, 0, len(sets))
	for _, set := range sets {
		h := set.Combined()
		p := h.P4
		kinematics = append(kinematics, SingleHadronKinematics{
			PT:             c.PtCOM(&p),
			Z:              c.Z(&p),
			Phi:            c.PhiH(&p),
			Mh:             p.M(),
			XF:             c.XF(&p),
			Mx:             c.Mx(&p),
			ParentPid:      h.ParentPid,
			GrandParentPid: h.GrandParentPid,
			Status:         h.Status,
		})
	}
	return kinematics
}

// DiHadron computes one entry per set. Every set must have exactly two slots.
func (c *Calculator) DiHadron(sets []HadroniumSet) ([]DiHadronKinematics, error) {
	kinematics := make([]DiHadronKinematics, 0, len(sets))
	for _, set := range sets {
		if len(set) != 2 {
			return nil, &ErrIncompatibleArity{Want: 2, Got: len(set)}
		}
		h1, h2 := set[0], set[1]
		p1, p2 := h1.P4, h2.P4
		p := add(&p1, &p2)
		kinematics = append(kinematics, DiHadronKinematics{
			PT1:             c.PtCOM(&p1),
			PT2:             c.PtCOM(&p2),
			PT:              c.PtCOM(&p),
			Z1:              c.Z(&p1),
			Z2:              c.Z(&p2),
			Z:               c.Z(&p),
			PhiH:            c.PhiH(&p),
			PhiRT:           c.PhiRT(&p1, &p2),
			PhiRperp:        c.PhiRperp(&p1, &p2),
			Th:              c.ComTheta(&p1, &p2),
			Mh:              p.M(),
			XF1:             c.XF(&p1),
			XF2:             c.XF(&p2),
			XF:              c.XF(&p),
			Mx:              c.Mx(&p),
			ParentPid1:      h1.ParentPid,
			GrandParentPid1: h1.GrandParentPid,
			Status1:         h1.Status,
			ParentPid2:      h2.ParentPid,
			GrandParentPid2: h2.GrandParentPid,
			Status2:         h2.Status,
		})
	}
	return kinematics, nil
}

// Hadrons dispatches on the analysis mode.
func (c *Calculator) Hadrons(mode Mode, sets []HadroniumSet) ([]HadronKinematics, error) {
	var out []HadronKinematics
	switch mode {
	case SingleHadron:
		for _, k := range c.SingleHadron(sets) {
			out = append(out, k)
		}
	case DiHadron:
		dihadrons, err := c.DiHadron(sets)
		if err != nil {
			return nil, err
		}
		for _, k := range dihadrons {
			out = append(out, k)
		}
	default:
		return nil, &ErrUnknownMode{Mode: mode}
	}
	return out, nil
}

// Z is the fraction of the photon energy carried by p in the target rest frame.
func (c *Calculator) Z(p fmom.P4) float64 {
	return fmom.Dot(&c.target, p) / fmom.Dot(&c.target, &c.q)
}

// Mx is the missing mass of l + P -> l' + p + X.
func (c *Calculator) Mx(p fmom.P4) float64 {
	missing := add(&c.lepton, &c.target)
	missing = sub(&missing, &c.scattered)
	missing = sub(&missing, p)
	return missing.M()
}

func (c *Calculator) toCOM(p fmom.P4) fmom.P4 {
	return fmom.Boost(p, c.comBoost)
}

// PtCOM is the momentum of p transverse to the beam axis, after boosting
// into the photon-target rest frame.
func (c *Calculator) PtCOM(p fmom.P4) float64 {
	return c.toCOM(p).Pt()
}

// XF is the Feynman x of p, 2 p_z / W in the photon-target rest frame.
func (c *Calculator) XF(p fmom.P4) float64 {
	return 2 * c.toCOM(p).Pz() / c.w
}

// PhiH is the azimuthal angle of p around q.
func (c *Calculator) PhiH(p fmom.P4) float64 {
	return c.planeAngle(fmom.VecOf(p))
}

// PhiRT is the azimuthal angle of the transverse part of (p1 - p2)/2.
func (c *Calculator) PhiRT(p1, p2 fmom.P4) float64 {
	r := r3.Scale(0.5, r3.Sub(fmom.VecOf(p1), fmom.VecOf(p2)))
	return c.planeAngle(c.perp(r))
}

// PhiRperp is the azimuthal angle of (z2 P1perp - z1 P2perp)/(z1 + z2).
func (c *Calculator) PhiRperp(p1, p2 fmom.P4) float64 {
	z1 := c.Z(p1)
	z2 := c.Z(p2)
	p1perp := c.perp(fmom.VecOf(p1))
	p2perp := c.perp(fmom.VecOf(p2))
	rperp := r3.Scale(1/(z1+z2), r3.Sub(r3.Scale(z2, p1perp), r3.Scale(z1, p2perp)))
	return c.planeAngle(rperp)
}

// ComTheta is the polar angle of p1 in the pair rest frame, measured from
// the direction of flight of the pair.
func (c *Calculator) ComTheta(p1, p2 fmom.P4) float64 {
	pair := add(p1, p2)
	// a massless pair has no rest frame
	if pair.M2() <= masslessTolerance*pair.E()*pair.E() {
		return 0
	}
	boost := fmom.BoostOf(&pair)
	if r3.Norm(boost) == 0 {
		return 0
	}
	v := fmom.VecOf(fmom.Boost(p1, r3.Scale(-1, boost)))
	return angle(v, boost)
}

// perp removes the component of v along q.
func (c *Calculator) perp(v r3.Vec) r3.Vec {
	qv := fmom.VecOf(&c.q)
	return r3.Sub(v, r3.Scale(r3.Dot(v, qv)/r3.Dot(qv, qv), qv))
}

// planeAngle measures the angle between the lepton plane (q x l) and the
// plane (q x v). The sign is that of (q x l).v and is always +1 or -1; a
// degenerate plane gives 0.
func (c *Calculator) planeAngle(v r3.Vec) float64 {
	qv := fmom.VecOf(&c.q)
	qxl := r3.Cross(qv, fmom.VecOf(&c.lepton))
	qxv := r3.Cross(qv, v)
	norm := r3.Norm(qxl) * r3.Norm(qxv)
	if norm == 0 {
		return 0
	}
	sign := 1.0
	if r3.Dot(qxl, v) < 0 {
		sign = -1
	}
	return sign * math.Acos(clamp(r3.Dot(qxl, qxv)/norm))
}

const masslessTolerance = 1e-12

func angle(a, b r3.Vec) float64 {
	norm := r3.Norm(a) * r3.Norm(b)
	if norm == 0 {
		return 0
	}
	return math.Acos(clamp(r3.Dot(a, b) / norm))
}

func clamp(cos float64) float64 {
	return math.Max(-1, math.Min(1, cos))
}

func add(a, b fmom.P4) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(a.Px()+b.Px(), a.Py()+b.Py(), a.Pz()+b.Pz(), a.E()+b.E())
}

func sub(a, b fmom.P4) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(a.Px()-b.Px(), a.Py()-b.Py(), a.Pz()-b.Pz(), a.E()-b.E())
}
