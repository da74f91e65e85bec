package control

// Constant applies the same torque every tick regardless of angle.
type Constant struct {
	Value float64
}

func NewConstant(value float64) *Constant {
	return &Constant{Value: value}
}

func (c *Constant) ControlTorque(theta, dt float64) float64 {
	return c.Value
}

func (c *Constant) GetParams() map[string]float64 {
	return map[string]float64{"Torque": c.Value}
}
