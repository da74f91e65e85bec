package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/viz"
)

// Point is one sample in the (theta, theta_dot) plane.
type Point struct {
	X, Y float64
}

// PhasePortrait holds the trajectory of a run in phase space, theta in
// degrees against theta_dot in rad/s.
type PhasePortrait struct {
	Points     []Point
	MinX, MaxX float64
	MinY, MaxY float64
}

func NewPhasePortrait(samples []dynamo.Snapshot) (*PhasePortrait, error) {
	if len(samples) == 0 {
		return nil, dynamo.ErrNoData
	}

	p := &PhasePortrait{
		Points: make([]Point, 0, len(samples)),
		MinX:   math.Inf(1),
		MaxX:   math.Inf(-1),
		MinY:   math.Inf(1),
		MaxY:   math.Inf(-1),
	}
	for _, s := range samples {
		if !s.IsValid() {
			continue
		}
		pt := Point{X: s.ThetaDeg(), Y: s.ThetaDot}
		p.Points = append(p.Points, pt)
		p.MinX = math.Min(p.MinX, pt.X)
		p.MaxX = math.Max(p.MaxX, pt.X)
		p.MinY = math.Min(p.MinY, pt.Y)
		p.MaxY = math.Max(p.MaxY, pt.Y)
	}
	if len(p.Points) == 0 {
		return nil, dynamo.ErrNoData
	}

	// Pad so the extremes do not sit on the frame.
	padX := padding(p.MaxX - p.MinX)
	padY := padding(p.MaxY - p.MinY)
	p.MinX -= padX
	p.MaxX += padX
	p.MinY -= padY
	p.MaxY += padY
	return p, nil
}

func padding(span float64) float64 {
	if span == 0 {
		return 0.5
	}
	return span * 0.1
}

// Render draws the portrait on a braille canvas of width x height cells,
// joining consecutive samples and marking the axes through the origin.
func (p *PhasePortrait) Render(width, height int) string {
	c := viz.NewCanvas(width, height)
	w, h := c.Dots()

	toDot := func(pt Point) (int, int) {
		x := int(math.Round((pt.X - p.MinX) / (p.MaxX - p.MinX) * float64(w-1)))
		y := h - 1 - int(math.Round((pt.Y-p.MinY)/(p.MaxY-p.MinY)*float64(h-1)))
		return x, y
	}

	if p.MinX <= 0 && p.MaxX >= 0 {
		x, _ := toDot(Point{})
		for y := 0; y < h; y += 2 {
			c.Set(x, y)
		}
	}
	if p.MinY <= 0 && p.MaxY >= 0 {
		_, y := toDot(Point{})
		for x := 0; x < w; x += 2 {
			c.Set(x, y)
		}
	}

	px, py := toDot(p.Points[0])
	for _, pt := range p.Points[1:] {
		x, y := toDot(pt)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%8.2f ┐\n", p.MaxY)
	for _, line := range strings.Split(c.String(), "\n") {
		sb.WriteString("         │")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%8.2f ┘\n", p.MinY)
	fmt.Fprintf(&sb, "          %-*.2f%.2f", max(width-6, 1), p.MinX, p.MaxX)
	return sb.String()
}

// SettlingTime returns the elapsed time after which |theta| stays inside
// bandDeg for the rest of the run. ok is false when the run never settles
// or ends tipped.
func SettlingTime(samples []dynamo.Snapshot, bandDeg float64) (t float64, ok bool) {
	if len(samples) == 0 || samples[len(samples)-1].Tipped {
		return 0, false
	}
	for i := len(samples) - 1; i >= 0; i-- {
		if math.Abs(samples[i].ThetaDeg()) > bandDeg {
			if i == len(samples)-1 {
				return 0, false
			}
			return samples[i+1].Elapsed, true
		}
	}
	return samples[0].Elapsed, true
}

// Overshoot is the largest excursion past upright on the side opposite to
// the starting lean, in degrees.
func Overshoot(samples []dynamo.Snapshot) float64 {
	if len(samples) == 0 {
		return 0
	}
	sign := math.Copysign(1, samples[0].Theta)
	worst := 0.0
	for _, s := range samples {
		if v := -sign * s.ThetaDeg(); v > worst {
			worst = v
		}
	}
	return worst
}
