package control

type Proportional struct {
	Kp float64
}

func NewProportional(kp float64) *Proportional {
	return &Proportional{Kp: kp}
}

// ControlTorque ignores dt.
func (p *Proportional) ControlTorque(theta, dt float64) float64 {
	return -p.Kp * theta
}

func (p *Proportional) GetParams() map[string]float64 {
	return map[string]float64{"Kp": p.Kp}
}
