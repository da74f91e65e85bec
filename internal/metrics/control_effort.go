package metrics

import (
	"math"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

// torqueStats accumulates |torque| over the ticks a body was still running.
// The tick that tips the body counts, later ticks do not.
type torqueStats struct {
	sum   float64
	peak  float64
	ticks int
	done  bool
}

func (t *torqueStats) add(s dynamo.Snapshot) {
	if t.done {
		return
	}
	mag := math.Abs(s.Torque)
	t.sum += mag
	t.peak = math.Max(t.peak, mag)
	t.ticks++
	t.done = s.Tipped
}

func (t *torqueStats) reset() { *t = torqueStats{} }

// ControlEffort is the mean corrective torque magnitude in N*m.
type ControlEffort struct {
	stats torqueStats
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string              { return "control_effort" }
func (c *ControlEffort) Observe(s dynamo.Snapshot) { c.stats.add(s) }
func (c *ControlEffort) Reset()                    { c.stats.reset() }

func (c *ControlEffort) Value() float64 {
	if c.stats.ticks == 0 {
		return 0
	}
	return c.stats.sum / float64(c.stats.ticks)
}

// PeakTorque is the largest corrective torque magnitude applied.
type PeakTorque struct {
	stats torqueStats
}

func NewPeakTorque() *PeakTorque { return &PeakTorque{} }

func (p *PeakTorque) Name() string              { return "peak_torque" }
func (p *PeakTorque) Observe(s dynamo.Snapshot) { p.stats.add(s) }
func (p *PeakTorque) Reset()                    { p.stats.reset() }
func (p *PeakTorque) Value() float64            { return p.stats.peak }
