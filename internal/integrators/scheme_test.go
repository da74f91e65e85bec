package integrators

import (
	"math"
	"testing"
)

// harmonic oscillator theta” = -theta, one full period
func runOscillator(s Scheme, dt float64) (float64, float64) {
	theta, omega := 1.0, 0.0
	steps := int(math.Round(2 * math.Pi / dt))
	for i := 0; i < steps; i++ {
		theta, omega = s.Advance(theta, omega, -theta, dt)
	}
	return theta, omega
}

func energy(theta, omega float64) float64 {
	return 0.5 * (theta*theta + omega*omega)
}

func TestSemiImplicitOrdering(t *testing.T) {
	theta, omega := NewSemiImplicitEuler().Advance(1.0, 2.0, 3.0, 0.1)

	wantOmega := 2.0 + 3.0*0.1
	wantTheta := 1.0 + wantOmega*0.1
	if math.Abs(omega-wantOmega) > 1e-12 || math.Abs(theta-wantTheta) > 1e-12 {
		t.Errorf("got (%v, %v), want (%v, %v)", theta, omega, wantTheta, wantOmega)
	}
}

func TestExplicitOrdering(t *testing.T) {
	theta, omega := NewExplicitEuler().Advance(1.0, 2.0, 3.0, 0.1)

	if math.Abs(theta-1.2) > 1e-12 || math.Abs(omega-2.3) > 1e-12 {
		t.Errorf("got (%v, %v), want (1.2, 2.3)", theta, omega)
	}
}

func TestEnergyBehaviour(t *testing.T) {
	dt := 0.01
	e0 := energy(1.0, 0.0)

	th, om := runOscillator(NewSemiImplicitEuler(), dt)
	if drift := math.Abs(energy(th, om)-e0) / e0; drift > 0.02 {
		t.Errorf("symplectic energy drift %.4f too large", drift)
	}

	th, om = runOscillator(NewExplicitEuler(), dt)
	if energy(th, om) <= e0 {
		t.Error("explicit euler should gain energy on an oscillator")
	}
}

func TestNames(t *testing.T) {
	if NewSemiImplicitEuler().Name() != "symplectic" {
		t.Error("unexpected semi-implicit name")
	}
	if NewExplicitEuler().Name() != "euler" {
		t.Error("unexpected explicit name")
	}
}
