package control

type PI struct {
	Kp       float64
	Ki       float64
	integral float64
	last     Terms
}

func NewPI(kp, ki float64) *PI {
	return &PI{Kp: kp, Ki: ki}
}

func (p *PI) ControlTorque(theta, dt float64) float64 {
	err := theta
	p.integral += err * dt

	p.last = Terms{
		Error: err,
		P:     p.Kp * err,
		I:     p.Ki * p.integral,
	}
	return p.last.Torque()
}

// Integral returns the accumulated angle error.
func (p *PI) Integral() float64 { return p.integral }

// Diagnostics returns the terms of the most recent call.
func (p *PI) Diagnostics() Terms { return p.last }

func (p *PI) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
	}
}
