package control

// Default gains.
const (
	DefaultKp = 800.0
	DefaultKi = 50.0
	DefaultKd = 10.0
)

// Controller computes a corrective torque from the body angle.
type Controller interface {
	ControlTorque(theta, dt float64) float64
}

// Tunable exposes controller gains for display and run metadata.
type Tunable interface {
	GetParams() map[string]float64
}

// Terms is the per-term breakdown of the last computed torque.
type Terms struct {
	Error float64
	P     float64
	I     float64
	D     float64
}

// Torque returns the summed corrective torque.
func (t Terms) Torque() float64 {
	return -(t.P + t.I + t.D)
}
