package metrics

import (
	"math"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

// PeakAngle reports the largest |theta| seen, in degrees.
type PeakAngle struct {
	name string
	peak float64
}

func NewPeakAngle() *PeakAngle {
	return &PeakAngle{name: "peak_angle_deg"}
}

func (p *PeakAngle) Name() string { return p.name }

func (p *PeakAngle) Observe(s dynamo.Snapshot) {
	p.peak = math.Max(p.peak, math.Abs(s.ThetaDeg()))
}

func (p *PeakAngle) Value() float64 { return p.peak }

func (p *PeakAngle) Reset() { p.peak = 0 }

// TimeUpright is the fraction of ticks with |theta| inside a band around
// upright.
type TimeUpright struct {
	name    string
	band    float64
	inside  int
	samples int
}

// NewTimeUpright takes the band half-width in radians.
func NewTimeUpright(band float64) *TimeUpright {
	return &TimeUpright{
		name: "time_upright",
		band: band,
	}
}

func (u *TimeUpright) Name() string { return u.name }

func (u *TimeUpright) Observe(s dynamo.Snapshot) {
	u.samples++
	if math.Abs(s.Theta) <= u.band {
		u.inside++
	}
}

func (u *TimeUpright) Value() float64 {
	if u.samples == 0 {
		return 0
	}
	return float64(u.inside) / float64(u.samples)
}

func (u *TimeUpright) Reset() {
	u.inside = 0
	u.samples = 0
}
