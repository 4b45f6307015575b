package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/hydro"
)

const (
	width           = 72
	height          = 16
	historyCapacity = 600
	frameRate       = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Geometry is the outline drawn for the body: a box of half-width Radius
// reaching Draft below and Freeboard above the still waterline.
type Geometry struct {
	Radius    float64
	Draft     float64
	Freeboard float64
}

// Model steps a prepared hydrodynamic model on a timer and renders it.
type Model struct {
	h          *hydro.Hydrodynamics
	integrator dynamo.Integrator
	controller dynamo.Controller
	geom       Geometry

	initial dynamo.State
	state   dynamo.State
	u       dynamo.Control
	step    int
	dt      float64
	speed   int
	running bool
	err     error

	name   string
	canvas *Canvas
	heave  []float64
}

// NewModel resets h and starts from x0.
func NewModel(h *hydro.Hydrodynamics, integ dynamo.Integrator, ctrl dynamo.Controller, x0 []float64, dt float64, name string, geom Geometry) Model {
	if geom.Radius <= 0 {
		geom.Radius = 1
	}
	if geom.Draft <= 0 {
		geom.Draft = geom.Radius
	}
	if geom.Freeboard <= 0 {
		geom.Freeboard = geom.Draft / 2
	}
	h.Reset()
	return Model{
		h:          h,
		integrator: integ,
		controller: ctrl,
		geom:       geom,
		initial:    dynamo.State(x0).Clone(),
		state:      dynamo.State(x0).Clone(),
		u:          make(dynamo.Control, h.ControlDim()),
		dt:         dt,
		speed:      max(1, int(math.Round(1/(frameRate*dt)))),
		running:    true,
		name:       name,
		canvas:     NewCanvas(width, height),
		heave:      make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "r":
			m.reset()
		case "+", "=":
			m.speed *= 2
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// Time is the simulation time of the current state.
func (m Model) Time() float64 { return float64(m.step) * m.dt }

func (m Model) State() dynamo.State { return m.state }

// advance takes speed integrator steps. A diverged state stops the run.
func (m *Model) advance() {
	for i := 0; i < m.speed; i++ {
		t := m.Time()
		m.u = m.controller.Compute(m.state, t)
		next := m.integrator.Step(m.h, m.state, m.u, t, m.dt)
		if !next.IsValid() {
			m.err = fmt.Errorf("%w at t=%.2fs", dynamo.ErrInvalidState, t)
			m.running = false
			return
		}
		m.state = next
		m.step++

		m.heave = append(m.heave, m.state[hydro.Heave])
		if len(m.heave) > historyCapacity {
			m.heave = m.heave[1:]
		}
	}
}

func (m *Model) reset() {
	m.h.Reset()
	m.state = m.initial.Clone()
	m.u = make(dynamo.Control, m.h.ControlDim())
	m.step = 0
	m.err = nil
	m.running = true
	m.heave = m.heave[:0]
	if r, ok := m.controller.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// draw renders the free surface along the wave heading and the body outline
// displaced by surge, heave and pitch.
func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	g := m.geom
	half := 4 * g.Radius
	ext := 1.5*g.Draft + 1
	c.SetWindow(-half, half, -ext, ext)

	t := m.Time()
	w := m.h.Wave()
	dots, _ := c.Dots()
	prevX, prevY := -half, 0.0
	for i := 0; i < dots; i++ {
		x := -half + 2*half*float64(i)/float64(dots-1)
		eta := 0.0
		if w != nil {
			eta = w.Eta(t, x, 0)
		}
		if i > 0 {
			c.Line(prevX, prevY, x, eta)
		}
		prevX, prevY = x, eta
	}

	surge, heave, pitch := m.state[hydro.Surge], m.state[hydro.Heave], m.state[hydro.Pitch]
	bx := []float64{-g.Radius, g.Radius, g.Radius, -g.Radius}
	bz := []float64{-g.Draft, -g.Draft, g.Freeboard, g.Freeboard}
	xs := make([]float64, 4)
	zs := make([]float64, 4)
	cos, sin := math.Cos(pitch), math.Sin(pitch)
	for i := range bx {
		// Positive pitch turns +x down.
		xs[i] = surge + bx[i]*cos + bz[i]*sin
		zs[i] = heave - bx[i]*sin + bz[i]*cos
	}
	c.Polygon(xs, zs)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(status + "\n")
	s.WriteString(canvasStyle.Render(m.canvas.String()) + "\n")

	rows := []struct {
		label string
		value string
	}{
		{"Time", fmt.Sprintf("%.2fs", m.Time())},
		{"Heave", fmt.Sprintf("%+.3f m", m.state[hydro.Heave])},
		{"Pitch", fmt.Sprintf("%+.2f deg", m.state[hydro.Pitch]*180/math.Pi)},
		{"Surge", fmt.Sprintf("%+.3f m", m.state[hydro.Surge])},
		{"Control", fmt.Sprintf("%+.1f N", m.u[hydro.Heave])},
		{"Speed", fmt.Sprintf("%d steps/frame", m.speed)},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}

	if len(m.heave) > 1 {
		chart := asciigraph.Plot(m.heave, asciigraph.Height(5), asciigraph.Width(60), asciigraph.Caption("heave (m)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset +/-:Speed Q:Quit"))
	return s.String()
}
