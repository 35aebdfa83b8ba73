package hadronia

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pionWithEnergy builds a pion of energy e with transverse momentum (px, py).
func pionWithEnergy(pid int, e, px, py float64) Particle {
	pz := math.Sqrt(e*e - pionMass*pionMass - px*px - py*py)
	return Particle{Status: FinalState, Pid: pid, Px: px, Py: py, Pz: pz, E: e, Mass: pionMass}
}

func TestEventKinematics(t *testing.T) {
	event := newEvent(scatteredElectron())
	calc, err := NewCalculator(event)
	require.NoError(t, err)
	ek := calc.Event()

	l := event.Particles[0]
	s := event.Particles[2]
	q := [4]float64{l.Px - s.Px, l.Py - s.Py, l.Pz - s.Pz, l.E - s.E}
	q2 := -(q[3]*q[3] - q[0]*q[0] - q[1]*q[1] - q[2]*q[2])
	nu := l.E - s.E

	assert.InDelta(t, q2, ek.Q2, 1e-9)
	assert.InDelta(t, nu, ek.Nu, 1e-9)
	assert.InDelta(t, nu/beamEnergy, ek.Y, 1e-9)
	assert.InDelta(t, q2/(2*protonMass*nu), ek.X, 1e-9)
	assert.InDelta(t, math.Sqrt(protonMass*protonMass+2*protonMass*nu-q2), ek.W, 1e-9)
	// Q2 = 2 M E x y for a target at rest
	assert.InDelta(t, 2*protonMass*beamEnergy*ek.X*ek.Y, ek.Q2, 1e-9)

	assert.InDelta(t, 2*protonMass*ek.X/math.Sqrt(q2), ek.Gamma, 1e-9)
	assert.Greater(t, ek.Epsilon, 0.0)
	assert.Less(t, ek.Epsilon, 1.0)
	assert.InDelta(t, ek.Epsilon*ek.DepolA, ek.DepolB, 1e-12)
}

func TestNewCalculatorErrors(t *testing.T) {
	_, err := NewCalculator(&Event{Particles: []Particle{{Pid: 11}}})
	assert.True(t, errors.Is(err, ErrShortEvent))

	_, err = NewCalculator(newEvent(pion(211, 0, 0.1, 0, 1)))
	assert.True(t, errors.Is(err, ErrNoScatteredLepton))

	// the beam type selects the scattered lepton
	event := newEvent(particle(FinalState, -11, 1, 0.5, 0, 5, 0))
	_, err = NewCalculator(event)
	assert.True(t, errors.Is(err, ErrNoScatteredLepton))
	event.BeamType = -11
	_, err = NewCalculator(event)
	assert.NoError(t, err)
}

func TestDiHadronFractionsAddUp(t *testing.T) {
	event := newEvent(scatteredElectron())
	nu := event.Particles[0].E - event.Particles[2].E
	// back to back in the transverse plane, sharing the photon energy
	event.Particles = append(event.Particles,
		pionWithEnergy(211, 0.6*nu, 0.3, 0.1),
		pionWithEnergy(-211, 0.4*nu, -0.3, -0.1),
	)
	sets := mustReconstruct(t, event, "(211) + (-211)")
	require.Len(t, sets, 1)

	calc, err := NewCalculator(event)
	require.NoError(t, err)
	dihadrons, err := calc.DiHadron(sets)
	require.NoError(t, err)
	require.Len(t, dihadrons, 1)
	dh := dihadrons[0]

	assert.InDelta(t, 0.6, dh.Z1, 1e-9)
	assert.InDelta(t, 0.4, dh.Z2, 1e-9)
	assert.InDelta(t, 1.0, dh.Z1+dh.Z2, 1e-9)
	assert.InDelta(t, dh.Z, dh.Z1+dh.Z2, 1e-9)

	assert.GreaterOrEqual(t, dh.Th, 0.0)
	assert.LessOrEqual(t, dh.Th, math.Pi)
	for _, phi := range []float64{dh.PhiH, dh.PhiRT, dh.PhiRperp} {
		assert.GreaterOrEqual(t, phi, -math.Pi)
		assert.LessOrEqual(t, phi, math.Pi)
	}
	assert.Greater(t, dh.Mh, 2*pionMass)
	assert.Equal(t, NoAncestor, dh.ParentPid1)
	assert.Equal(t, FinalState, dh.Status2)
}

func TestDiHadronArity(t *testing.T) {
	event := newEvent(
		scatteredElectron(),
		pion(211, 0, 0.1, 0, 1),
		pion(-211, 0, -0.1, 0, 1),
		photon(0, 0, 0.1, 1),
	)
	calc, err := NewCalculator(event)
	require.NoError(t, err)

	sets := mustReconstruct(t, event, "(211) + (-211) + (22)")
	require.Len(t, sets, 1)
	_, err = calc.DiHadron(sets)
	var arity *ErrIncompatibleArity
	require.True(t, errors.As(err, &arity))
	assert.Equal(t, 2, arity.Want)
	assert.Equal(t, 3, arity.Got)

	_, err = calc.Hadrons(DiHadron, sets)
	assert.True(t, errors.As(err, &arity))

	// single hadron mode folds every slot into one hadron
	singles, err := calc.Hadrons(SingleHadron, sets)
	require.NoError(t, err)
	require.Len(t, singles, 1)
	mh, ok := singles[0].Value("Mh")
	require.True(t, ok)
	assert.InDelta(t, sets[0].Combined().Mass(), mh, 1e-9)
}

func TestHadronsUnknownMode(t *testing.T) {
	calc, err := NewCalculator(newEvent(scatteredElectron()))
	require.NoError(t, err)
	_, err = calc.Hadrons(Mode(7), nil)
	var unknown *ErrUnknownMode
	assert.True(t, errors.As(err, &unknown))
}

func TestPhiIsOddUnderReflection(t *testing.T) {
	// the lepton plane is the x-z plane
	event := newEvent(particle(FinalState, electronPid, 1, 0.8, 0, 7.0, 0))
	calc, err := NewCalculator(event)
	require.NoError(t, err)

	up := pion(211, 0, 0.2, 0.3, 1.5).P4()
	down := pion(211, 0, 0.2, -0.3, 1.5).P4()
	phiUp := calc.PhiH(&up)
	phiDown := calc.PhiH(&down)

	assert.NotZero(t, phiUp)
	assert.InDelta(t, -phiUp, phiDown, 1e-12)
	assert.InDelta(t, math.Pi/2, math.Abs(phiUp), math.Pi/2)

	// a hadron along q spans no plane
	q := calc.Q()
	assert.Equal(t, 0.0, calc.PhiH(&q))
}

func TestSingleHadronKinematics(t *testing.T) {
	event := newEvent(scatteredElectron())
	nu := event.Particles[0].E - event.Particles[2].E
	event.Particles = append(event.Particles, pionWithEnergy(211, 0.5*nu, 0.2, 0.1))
	sets := mustReconstruct(t, event, "(211)")

	calc, err := NewCalculator(event)
	require.NoError(t, err)
	singles := calc.SingleHadron(sets)
	require.Len(t, singles, 1)
	sh := singles[0]

	assert.InDelta(t, 0.5, sh.Z, 1e-9)
	assert.InDelta(t, pionMass, sh.Mh, 1e-9)
	assert.GreaterOrEqual(t, sh.PT, 0.0)
	assert.Greater(t, sh.Mx, 0.0)
	assert.LessOrEqual(t, math.Abs(sh.XF), 1.0)
	assert.Equal(t, SingleHadron, sh.Mode())
}

func TestDiHadronCollinearPhotons(t *testing.T) {
	event := newEvent(scatteredElectron(), photon(0, 0, 0.3, 0.4), photon(0, 0, 0.6, 0.8))
	sets := mustReconstruct(t, event, "(22) + (22)")
	require.Len(t, sets, 1)

	calc, err := NewCalculator(event)
	require.NoError(t, err)
	hadrons, err := calc.DiHadron(sets)
	require.NoError(t, err)
	require.Len(t, hadrons, 1)
	assert.Equal(t, 0.0, hadrons[0].Th)
	assert.InDelta(t, 0, hadrons[0].Mh, 1e-6)
}
