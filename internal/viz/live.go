package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

const (
	graphWidth      = 70
	graphHeight     = 6
	historyCapacity = 600
	maxGraphs       = 4
)

type TickMsg time.Time

// Model drives a closed-loop simulation live in the terminal: each tick
// steps the system under its controller and appends to the per-state
// history plots.
type Model struct {
	title  string
	labels []string

	sys  *linsys.System
	ctrl linsys.Controller
	gain *mat.Dense

	x0 linsys.State
	x  linsys.State
	u  linsys.Control
	t  float64
	dt float64

	history  [][]float64 // one ring per plotted state
	running  bool
	diverged bool
	fps      int
}

// NewModel prepares a live view of sys under ctrl starting from x0. The
// gain is display-only; labels name the state entries and may be nil.
func NewModel(title string, labels []string, sys *linsys.System, ctrl linsys.Controller, gain *mat.Dense, x0 linsys.State, dt float64, fps int) Model {
	n, _ := sys.Dims()
	graphs := n
	if graphs > maxGraphs {
		graphs = maxGraphs
	}
	history := make([][]float64, graphs)
	for i := range history {
		history[i] = make([]float64, 0, historyCapacity)
	}
	if fps <= 0 {
		fps = 30
	}
	return Model{
		title:   title,
		labels:  labels,
		sys:     sys,
		ctrl:    ctrl,
		gain:    gain,
		x0:      x0.Clone(),
		x:       x0.Clone(),
		dt:      dt,
		history: history,
		running: true,
		fps:     fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.diverged {
				m.running = !m.running
			}
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && !m.diverged {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	var u linsys.Control
	if m.ctrl != nil {
		u = m.ctrl.Compute(m.x, m.t)
	}

	next, err := m.sys.Step(m.x, u)
	if err != nil || !next.IsValid() {
		m.diverged = true
		m.running = false
		return
	}

	m.x = next
	m.u = u
	m.t += m.dt

	for i := range m.history {
		m.history[i] = append(m.history[i], m.x[i])
		if len(m.history[i]) > historyCapacity {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m *Model) reset() {
	m.x = m.x0.Clone()
	m.u = nil
	m.t = 0
	m.diverged = false
	m.running = true
	for i := range m.history {
		m.history[i] = m.history[i][:0]
	}
}

func (m Model) View() string {
	var b strings.Builder

	status := StatusRunning.Render("running")
	if m.diverged {
		status = StatusDiverged.Render("diverged")
	} else if !m.running {
		status = StatusPaused.Render("paused")
	}
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("dlqr live · %s", m.title)))
	b.WriteString("\n")

	var stats strings.Builder
	stats.WriteString(LabelStyle.Render("status") + status + "\n")
	stats.WriteString(LabelStyle.Render("t") + ValueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	for i, v := range m.x {
		stats.WriteString(LabelStyle.Render(m.label(i)) + ValueStyle.Render(fmt.Sprintf("%+.4f", v)) + "\n")
	}
	for i, v := range m.u {
		stats.WriteString(LabelStyle.Render(fmt.Sprintf("u%d", i)) + ValueStyle.Render(fmt.Sprintf("%+.4f", v)) + "\n")
	}
	stats.WriteString(LabelStyle.Render("gain") + GainStyle.Render(m.gainLine()))

	b.WriteString(PanelStyle.Render(stats.String()))
	b.WriteString("\n")

	for i, h := range m.history {
		if len(h) < 2 {
			continue
		}
		graph := asciigraph.Plot(h,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(m.label(i)),
		)
		b.WriteString(GraphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("space pause · r reset · q quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) label(i int) string {
	if i < len(m.labels) {
		return m.labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

func (m Model) gainLine() string {
	if m.gain == nil {
		return "none"
	}
	r, c := m.gain.Dims()
	parts := make([]string, 0, r)
	for i := 0; i < r; i++ {
		vals := make([]string, c)
		for j := 0; j < c; j++ {
			vals[j] = fmt.Sprintf("%.3f", m.gain.At(i, j))
		}
		parts = append(parts, "["+strings.Join(vals, " ")+"]")
	}
	return strings.Join(parts, " ")
}

// Run blocks on the live view until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
