package control

type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	integral float64
	prevErr  float64
	last     Terms
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp: kp,
		Ki: ki,
		Kd: kd,
	}
}

// ControlTorque updates the integral and derivative state. A non-positive dt
// zeroes the derivative term instead of dividing by it.
func (p *PID) ControlTorque(theta, dt float64) float64 {
	err := theta
	p.integral += err * dt

	derivative := 0.0
	if dt > 0 {
		derivative = (err - p.prevErr) / dt
	}

	p.last = Terms{
		Error: err,
		P:     p.Kp * err,
		I:     p.Ki * p.integral,
		D:     p.Kd * derivative,
	}
	p.prevErr = err

	return p.last.Torque()
}

func (p *PID) Integral() float64 { return p.integral }

func (p *PID) PreviousError() float64 { return p.prevErr }

// Diagnostics returns the terms of the most recent call.
func (p *PID) Diagnostics() Terms { return p.last }

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}
