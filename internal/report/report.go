package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

const (
	width  = 8 * vg.Inch
	height = 9 * vg.Inch
	dpi    = 150
)

type series struct {
	title  string
	ylabel string
	value  func(dynamo.Snapshot) float64
}

var panels = []series{
	{"Body angle", "theta (deg)", func(s dynamo.Snapshot) float64 { return s.ThetaDeg() }},
	{"Wheel position", "x (m)", func(s dynamo.Snapshot) float64 { return s.X }},
	{"Corrective torque", "torque (N*m)", func(s dynamo.Snapshot) float64 { return s.Torque }},
}

// Format picks the encoder from a file extension.
func Format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg":
		return ext[1:], nil
	default:
		return "", fmt.Errorf("unsupported report format %q (want .png or .svg)", ext)
	}
}

// Save renders the stacked plots for samples into path.
func Save(path, title string, samples []dynamo.Snapshot) error {
	format, err := Format(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := Write(bw, format, title, samples); err != nil {
		return err
	}
	return bw.Flush()
}

// Write renders to w in format "png" or "svg".
func Write(w io.Writer, format, title string, samples []dynamo.Snapshot) error {
	if len(samples) == 0 {
		return dynamo.ErrNoData
	}

	var c vg.CanvasWriterTo
	switch format {
	case "png":
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))}
	case "svg":
		c = vgsvg.New(width, height)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p, err := linePlot(panel, samples)
		if err != nil {
			return err
		}
		plots[i] = []*plot.Plot{p}
	}
	plots[0][0].Title.Text = title + ": " + panels[0].title

	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadY:      vg.Points(12),
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
	}

	dc := draw.New(c)
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	_, err := c.WriteTo(w)
	return err
}

func linePlot(panel series, samples []dynamo.Snapshot) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = panel.ylabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		y := panel.value(s)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: s.Elapsed, Y: y})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%s: %w", panel.title, dynamo.ErrNoData)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return p, nil
}
