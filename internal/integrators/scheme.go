package integrators

// Scheme advances the angular state by one fixed step given the angular
// acceleration computed at the start of the step.
type Scheme interface {
	Name() string
	Advance(theta, omega, alpha, dt float64) (float64, float64)
}

// SemiImplicitEuler updates velocity first and then position with the new
// velocity (symplectic Euler).
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (SemiImplicitEuler) Name() string { return "symplectic" }

func (SemiImplicitEuler) Advance(theta, omega, alpha, dt float64) (float64, float64) {
	omega += alpha * dt
	theta += omega * dt
	return theta, omega
}

// ExplicitEuler updates position with the old velocity. It gains energy on
// oscillatory systems and is kept for comparison runs.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (ExplicitEuler) Name() string { return "euler" }

func (ExplicitEuler) Advance(theta, omega, alpha, dt float64) (float64, float64) {
	theta += omega * dt
	omega += alpha * dt
	return theta, omega
}
