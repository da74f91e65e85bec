package metrics

import (
	"math"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

// EnergyDrift reports the worst relative departure of mechanical energy
// from the value at the first observed tick. Under control torque this is
// a measure of work done, with no torque it measures integrator error.
type EnergyDrift struct {
	sys    dynamo.Hamiltonian
	ref    float64
	worst  float64
	hasRef bool
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{sys: sys}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s dynamo.Snapshot) {
	energy := e.sys.Energy(s)
	if !e.hasRef {
		e.ref, e.hasRef = energy, true
		return
	}
	// Energy is zero at horizontal; fall back to absolute drift there.
	scale := math.Abs(e.ref)
	if scale < 1e-12 {
		scale = 1
	}
	if d := math.Abs(energy-e.ref) / scale; d > e.worst {
		e.worst = d
	}
}

func (e *EnergyDrift) Value() float64 { return e.worst }

func (e *EnergyDrift) Reset() {
	*e = EnergyDrift{sys: e.sys}
}
