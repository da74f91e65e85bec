package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/LuckySan/controlling-fun/internal/config"
	"github.com/LuckySan/controlling-fun/internal/control"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/integrators"
	"github.com/LuckySan/controlling-fun/internal/metrics"
)

// UprightBand is the |theta| band counted by the time_upright metric.
const UprightBand = 5 * math.Pi / 180

// ControllerFactory returns a fresh controller. A nil controller selects the
// command-driven torque.
type ControllerFactory func(c config.ControllerConfig) control.Controller

type Registry struct {
	integrators map[string]func() integrators.Scheme
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() integrators.Scheme),
		controllers: make(map[string]ControllerFactory),
	}

	r.integrators["symplectic"] = func() integrators.Scheme { return integrators.NewSemiImplicitEuler() }
	r.integrators["euler"] = func() integrators.Scheme { return integrators.NewExplicitEuler() }

	r.controllers["none"] = func(config.ControllerConfig) control.Controller { return nil }
	r.controllers["constant"] = func(c config.ControllerConfig) control.Controller {
		return control.NewConstant(c.Torque)
	}
	r.controllers["p"] = func(c config.ControllerConfig) control.Controller {
		return control.NewProportional(c.Kp)
	}
	r.controllers["pi"] = func(c config.ControllerConfig) control.Controller {
		return control.NewPI(c.Kp, c.Ki)
	}
	r.controllers["pid"] = func(c config.ControllerConfig) control.Controller {
		return control.NewPID(c.Kp, c.Ki, c.Kd)
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (integrators.Scheme, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: integrator %q", dynamo.ErrUnknownComponent, name)
	}
	return fn(), nil
}

func (r *Registry) GetController(c config.ControllerConfig) (control.Controller, error) {
	fn, ok := r.controllers[c.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: controller %q", dynamo.ErrUnknownComponent, c.Kind)
	}
	return fn(c), nil
}

func (r *Registry) ListControllers() []string {
	return sortedKeys(r.controllers)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for one run.
func (r *Registry) DefaultMetrics(sys dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(sys),
		metrics.NewPeakAngle(),
		metrics.NewControlEffort(),
		metrics.NewPeakTorque(),
		metrics.NewTimeUpright(UprightBand),
	}
}
