package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/physics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 240

	wheelRadius = 6 // dots
	groundInset = 3 // dots above the bottom edge
)

// BuildFunc constructs a fresh body and controller. It is called at start and
// on every reset.
type BuildFunc func() (*physics.Body, error)

type FrameMsg time.Time

// Model runs the body in real time: each frame advances as many fixed ticks
// as fit into one frame period.
type Model struct {
	title         string
	build         BuildFunc
	body          *physics.Body
	snap          dynamo.Snapshot
	command       dynamo.Command
	fps           int
	ticksPerFrame int
	running       bool
	canvas        *Canvas
	angles        []float64
	theme         int
	styles        styles
	err           error
}

// TicksPerFrame returns round(1/(fps*dt)), at least one.
func TicksPerFrame(fps int, dt float64) int {
	if fps <= 0 || dt <= 0 {
		return 1
	}
	n := int(math.Round(1 / (float64(fps) * dt)))
	if n < 1 {
		n = 1
	}
	return n
}

func NewModel(title string, build BuildFunc, fps int) (Model, error) {
	body, err := build()
	if err != nil {
		return Model{}, err
	}
	if fps <= 0 {
		fps = 60
	}

	m := Model{
		title:         title,
		build:         build,
		fps:           fps,
		ticksPerFrame: TicksPerFrame(fps, body.Params().Dt),
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		styles:        newStyles(Themes[0]),
	}
	m.attach(body)
	return m, nil
}

func (m *Model) attach(body *physics.Body) {
	m.body = body
	m.body.SetCommand(m.command)
	m.snap = body.Snapshot()
	m.angles = append(m.angles[:0], m.snap.ThetaDeg())
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return FrameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.setCommand(dynamo.Left)
		case "right", "l":
			m.setCommand(dynamo.Right)
		case "down", "s":
			m.setCommand(dynamo.Neutral)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		}
	case FrameMsg:
		if m.running {
			m.advance()
		}
		return m, m.frame()
	}
	return m, nil
}

func (m *Model) setCommand(c dynamo.Command) {
	m.command = c
	m.body.SetCommand(c)
}

// advance runs one frame worth of ticks. A tipped body is frozen, so the
// loop simply stops changing state.
func (m *Model) advance() {
	if m.body.Tipped() {
		return
	}
	for i := 0; i < m.ticksPerFrame; i++ {
		m.body.Step()
	}
	m.snap = m.body.Snapshot()

	m.angles = append(m.angles, m.snap.ThetaDeg())
	if len(m.angles) > historyCapacity {
		m.angles = m.angles[1:]
	}
}

// reset is the only way back from the tipped state.
func (m *Model) reset() {
	body, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.attach(body)
}

// StatusLine is the headline shown above the stats panel.
func StatusLine(s dynamo.Snapshot) string {
	if s.Tipped {
		return fmt.Sprintf("TIPPED! Angle: %.2f°", s.ThetaDeg())
	}
	return fmt.Sprintf("Balancing... Angle: %.2f°", s.ThetaDeg())
}

func TimeLine(s dynamo.Snapshot) string {
	return fmt.Sprintf("Time: %.2f s", s.Elapsed)
}

func (m Model) View() string {
	m.draw()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	status := StatusLine(m.snap)
	switch {
	case m.snap.Tipped:
		s.WriteString(st.alert.Render(status))
	case !m.running:
		s.WriteString(st.paused.Render(status + "  (paused)"))
	default:
		s.WriteString(st.ok.Render(status))
	}
	s.WriteString("\n" + st.value.Render(TimeLine(m.snap)) + "\n\n")

	if len(m.angles) > 1 {
		chart := asciigraph.Plot(m.angles, asciigraph.Height(6), asciigraph.Width(36), asciigraph.Precision(1), asciigraph.Caption("Angle (deg)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Rate", fmt.Sprintf("%.3f rad/s", m.snap.ThetaDot))
	row("Position", fmt.Sprintf("%.2f m", m.snap.X))
	row("Torque", fmt.Sprintf("%.1f N*m", m.snap.Torque))
	row("Command", m.command.String())
	row("Ticks/frm", fmt.Sprintf("%d", m.ticksPerFrame))
	if m.err != nil {
		s.WriteString(st.alert.Render("reset failed: "+m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("←/h →/l move  s/↓ stop  SP pause\nR reset  T theme  Q quit"))

	canvasView := st.canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

// draw renders ground, wheel, body and pivot. The scene scrolls with the
// wheel position and wraps at the canvas edges.
func (m *Model) draw() {
	c := m.canvas
	c.Clear()

	cw, ch := c.Dots()
	groundY := ch - groundInset
	c.DrawLine(0, groundY, cw-1, groundY)

	bodyLen := float64(ch) * 0.6
	pxPerMeter := bodyLen / m.body.Params().Length

	offset := int(math.Round(m.snap.X * pxPerMeter))
	pivotX := ((cw/2+offset)%cw + cw) % cw
	pivotY := groundY - wheelRadius

	c.DrawCircle(pivotX, pivotY, wheelRadius)

	// theta is measured from vertical, positive leaning right
	tipX := pivotX + int(math.Round(bodyLen*math.Sin(m.snap.Theta)))
	tipY := pivotY - int(math.Round(bodyLen*math.Cos(m.snap.Theta)))
	c.DrawLine(pivotX, pivotY, tipX, tipY)
	c.DrawLine(pivotX+1, pivotY, tipX+1, tipY)
	c.FillBlock(tipX, tipY, 1)

	c.FillBlock(pivotX, pivotY, 1)
}

// Run starts the full screen program and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
