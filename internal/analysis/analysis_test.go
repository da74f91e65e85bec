package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func damped() []dynamo.Snapshot {
	var out []dynamo.Snapshot
	for i := 0; i <= 100; i++ {
		t := float64(i) * 0.1
		out = append(out, dynamo.Snapshot{
			Theta:    deg(20 * math.Exp(-t) * math.Cos(3*t)),
			ThetaDot: -math.Exp(-t),
			Elapsed:  t,
		})
	}
	return out
}

func TestPhasePortraitBounds(t *testing.T) {
	p, err := NewPhasePortrait(damped())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Points) != 101 {
		t.Errorf("expected 101 points, got %d", len(p.Points))
	}
	if p.MaxX < 20 || p.MinX > -10 {
		t.Errorf("x bounds do not cover trajectory: [%f, %f]", p.MinX, p.MaxX)
	}
	if p.MinY > -1 || p.MaxY < 0 {
		t.Errorf("y bounds do not cover trajectory: [%f, %f]", p.MinY, p.MaxY)
	}
}

func TestPhasePortraitEmpty(t *testing.T) {
	if _, err := NewPhasePortrait(nil); !errors.Is(err, dynamo.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	bad := []dynamo.Snapshot{{Theta: math.NaN()}}
	if _, err := NewPhasePortrait(bad); !errors.Is(err, dynamo.ErrNoData) {
		t.Errorf("expected ErrNoData for invalid samples, got %v", err)
	}
}

func TestPhasePortraitRender(t *testing.T) {
	p, err := NewPhasePortrait(damped())
	if err != nil {
		t.Fatal(err)
	}
	out := p.Render(40, 10)
	lines := strings.Split(out, "\n")
	// header, 10 canvas rows, footer, axis labels
	if len(lines) != 13 {
		t.Fatalf("expected 13 lines, got %d", len(lines))
	}
	blank := strings.Repeat(string(rune(0x2800)), 40)
	drawn := 0
	for _, l := range lines[1:11] {
		if !strings.HasSuffix(l, blank) {
			drawn++
		}
	}
	if drawn == 0 {
		t.Error("nothing drawn on the canvas")
	}
}

func TestSettlingTime(t *testing.T) {
	ts, ok := SettlingTime(damped(), 5)
	if !ok {
		t.Fatal("expected run to settle")
	}
	// 20*exp(-t) < 5 once t > ln 4
	if ts > math.Log(4)+0.1 {
		t.Errorf("settled too late: %f", ts)
	}
	if ts <= 0 {
		t.Errorf("settled too early: %f", ts)
	}
}

func TestSettlingTimeNever(t *testing.T) {
	tipped := []dynamo.Snapshot{{Theta: deg(10)}, {Theta: deg(95), Elapsed: 1, Tipped: true}}
	if _, ok := SettlingTime(tipped, 5); ok {
		t.Error("tipped run cannot settle")
	}
	leaning := []dynamo.Snapshot{{Theta: deg(1)}, {Theta: deg(10), Elapsed: 1}}
	if _, ok := SettlingTime(leaning, 5); ok {
		t.Error("run ending outside the band cannot settle")
	}
	if _, ok := SettlingTime(nil, 5); ok {
		t.Error("empty run cannot settle")
	}
}

func TestOvershoot(t *testing.T) {
	samples := []dynamo.Snapshot{{Theta: deg(10)}, {Theta: deg(-3)}, {Theta: deg(-4)}, {Theta: deg(1)}}
	if got := Overshoot(samples); math.Abs(got-4) > 1e-9 {
		t.Errorf("expected 4°, got %f", got)
	}
	if got := Overshoot(samples[:1]); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}
