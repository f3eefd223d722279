package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/metrics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

type TickMsg time.Time

// Model steps an experiment on a timer and draws it.
type Model struct {
	title         string
	initial       *config.Config
	exp           *experiment.Experiment
	canvas        *Canvas
	camera        *Camera
	theme         Theme
	style         styles
	frame         time.Duration
	stepsPerFrame int
	running       bool
	showEdges     bool
	showHelp      bool
	paramKeys     []string
	initialParams map[string]float64
	selected      int
	energy        []float64
	err           error
}

// NewModel builds an experiment from a copy of cfg. Reset rebuilds from the
// same copy, so later edits to cfg are not seen.
func NewModel(title string, cfg *config.Config) (Model, error) {
	initial := cfg.Clone()
	exp, err := build(initial)
	if err != nil {
		return Model{}, err
	}

	fps := initial.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	params := exp.Simulation().Config().Params()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	theme := Themes[0]
	return Model{
		title:         title,
		initial:       initial,
		exp:           exp,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(initial.Physics.CubeSize * 1.2),
		theme:         theme,
		style:         newStyles(theme),
		frame:         time.Second / time.Duration(fps),
		stepsPerFrame: 1,
		running:       true,
		showEdges:     true,
		paramKeys:     keys,
		initialParams: params,
		energy:        make([]float64, 0, historyCapacity),
	}, nil
}

func build(cfg *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(cfg.Clone(), nil)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "e":
			m.showEdges = !m.showEdges
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.style = newStyles(m.theme)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		return m, m.tick()
	}
	return m, nil
}

// advance steps the experiment n times. A failed step pauses the model and
// keeps the error for display.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if err := m.exp.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.energy = append(m.energy, metrics.Kinetic(m.exp.Simulation().Snapshot()))
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

func (m *Model) adjustParam(factor float64) {
	key := m.paramKeys[m.selected]
	s := m.exp.Simulation()
	v := s.Config().Params()[key]
	if v == 0 {
		v = 1e-3
	}
	s.UpdateConfig(func(c *dynamo.Config) {
		_ = c.SetParam(key, v*factor)
	})
}

func (m *Model) reset() {
	exp, err := build(m.initial)
	if err != nil {
		m.err = err
		return
	}
	m.exp = exp
	m.energy = m.energy[:0]
	m.err = nil
}

func (m *Model) draw() {
	s := m.exp.Simulation()
	snap := s.Snapshot()
	m.canvas.Clear()
	Render3D(m.canvas, CubeWireframe(snap.CubeSize), m.camera)
	if m.showEdges {
		Render3D(m.canvas, EdgeWireframe(snap.Positions, s.Graph().Edges()), m.camera)
	}
	RenderParticles(m.canvas, snap, s.Colors(), m.camera)
}

func (m Model) View() string {
	m.draw()
	st := m.style
	s := m.exp.Simulation()
	cfg := s.Config()

	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		b.WriteString(st.alert.Render("HALTED: "+m.err.Error()) + "\n\n")
	case m.running:
		b.WriteString(st.status.Render("RUNNING") + "\n\n")
	default:
		b.WriteString(st.status.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("Kinetic energy"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", s.Steps()))
	row("Particles", fmt.Sprintf("%d", s.Len()))
	row("Integrator", s.Scheme().String())
	if n := len(m.energy); n > 0 {
		row("Energy", fmt.Sprintf("%.4g", m.energy[n-1]))
	}
	stats := s.LastCollisions()
	row("Contacts", fmt.Sprintf("%d (%d impulses)", stats.Contacts, stats.Impulses))
	row("Clamped", fmt.Sprintf("%d", s.LastClamps()))
	row("Edges", fmt.Sprintf("%d", s.Graph().EdgeCount()))
	row("Clusters", fmt.Sprintf("%d", clusterCount(s.Graph())))
	if d := m.exp.Driver(); d != nil {
		row("Threshold", fmt.Sprintf("%s %.3f", Bar(d.Threshold(), 10), d.Threshold()))
	}

	b.WriteString("\nPARAMETERS\n")
	params := cfg.Params()
	for i, k := range m.paramKeys {
		val, initial := params[k], m.initialParams[k]
		ratio := 0.5
		if initial != 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-12s %s %.3g", k, Bar(ratio, 10), val)
		if i == m.selected {
			b.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	b.WriteString(st.help.Render("SP:Pause N:Step R:Reset Q:Quit\nTab/↑↓:Tune E:Edges T:Theme ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		st.canvas.Render(m.canvas.Render(st.plain)),
		st.stats.Render(b.String()))
	if m.showHelp {
		return st.stats.Render(helpText) + "\n\n" + view
	}
	return view
}

// clusterCount is the number of components with at least one edge.
func clusterCount(g *graph.Graph) int {
	n := 0
	for _, c := range graph.Clusters(g).Components() {
		if len(c) > 1 {
			n++
		}
	}
	return n
}

const helpText = `KEYBOARD SHORTCUTS
  Space    Pause/Resume
  N        Single step while paused
  R        Rebuild from initial configuration
  Q        Quit
  Tab      Next parameter
  Up/K     Increase parameter (+5%)
  Down/J   Decrease parameter (-5%)
  X/Y/Z    Rotate camera (shift reverses)
  +/-      Zoom
  E        Toggle graph edges
  T        Cycle themes
  ?        Toggle this help`
