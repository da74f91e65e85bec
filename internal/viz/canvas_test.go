package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(10, 10)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet mismatch")
	}

	c.Clear()
	if c.String() != strings.Repeat(string(rune(brailleBlank)), 2) {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 2, 9, 2)
	for x := 0; x < 10; x++ {
		if !c.IsSet(x, 2) {
			t.Errorf("dot %d not set", x)
		}
	}
}

func TestCanvasCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 4)
	for _, p := range [][2]int{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected %v on circle", p)
		}
	}
	if c.IsSet(10, 10) {
		t.Error("circle should be hollow")
	}
}
