package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odosim/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	tickRate     = time.Second / 30
	maxSpeed     = 64
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps a simulation a few ticks per frame and draws the paths
// as they grow.
type LiveModel struct {
	cfg     sim.Config
	model   sim.ObservationModel
	rng     sim.Sampler
	state   sim.State
	log     *sim.Log
	speed   int
	running bool
	title   string
}

func NewLiveModel(cfg sim.Config, model sim.ObservationModel, title string) LiveModel {
	m := LiveModel{
		cfg:     cfg,
		model:   model,
		speed:   4,
		running: true,
		title:   title,
	}
	m.reset()
	return m
}

func (m *LiveModel) reset() {
	m.rng = sim.NewGaussian(m.cfg.Seed)
	m.state = sim.State{True: m.cfg.Initial, Odometry: m.cfg.Initial}
	m.log = &sim.Log{
		Variant: m.model.Name(),
		Dt:      m.cfg.Dt,
		Seed:    m.cfg.Seed,
		Metrics: make(map[string]float64),
	}
}

// Log returns the records produced so far.
func (m LiveModel) Log() *sim.Log { return m.log }

func (m LiveModel) Done() bool { return sim.Done(m.state, m.cfg) }

func (m LiveModel) Init() tea.Cmd { return tick() }

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
			m.running = true
		case "+", "=":
			if m.speed < maxSpeed {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// advance takes up to n steps, stopping at the end of the run.
func (m *LiveModel) advance(n int) {
	for i := 0; i < n && !sim.Done(m.state, m.cfg); i++ {
		var rec sim.Record
		m.state, rec = sim.Step(m.state, m.cfg, m.model, m.rng)
		m.log.Records = append(m.log.Records, rec)
	}
}

func (m LiveModel) status() string {
	switch {
	case m.Done():
		return StatusDone.Render("DONE")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

func (m LiveModel) View() string {
	plot := TrajectoryView(m.log, canvasWidth, canvasHeight)

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	fraction := 0.0
	if m.cfg.SimTime > 0 {
		fraction = m.state.Time / m.cfg.SimTime
	}
	s.WriteString(ProgressBar(fraction, 30) + "\n\n")

	final, ok := m.log.Final()
	facts := [][2]string{
		{"time", fmt.Sprintf("%.2f / %.2f", m.state.Time, m.cfg.SimTime)},
		{"steps", fmt.Sprintf("%d", m.log.Len())},
		{"fixes", fmt.Sprintf("%d", len(m.log.Observations()))},
		{"speed", fmt.Sprintf("%dx", m.speed)},
	}
	if ok {
		facts = append(facts, [2]string{"drift", fmt.Sprintf("%.4f", final.True.Distance(final.Odometry))})
	}
	for _, f := range facts {
		s.WriteString(MetricLabel.Render(f[0]) + MetricValue.Render(f[1]) + "\n")
	}

	if drift, err := SeriesOf(m.log, "drift"); err == nil && len(drift) > 1 {
		s.WriteString("\n" + SeriesPlot(drift, 30, 5, "drift") + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Reset +/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(plot), Panel.Render(s.String()))
}
