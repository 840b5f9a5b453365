package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/session"
)

const (
	disk           = "●"
	vacantGlyph    = "·"
	historyWindow  = 240
	splitIncrement = 5
)

type TickMsg time.Time

// Model wraps a session for Bubble Tea. The tick loop is the scheduler;
// the session only runs when told to.
type Model struct {
	sess     *session.Session
	interval time.Duration
	disks    []string
	vacant   string
	err      error
	showHelp bool
}

// NewModel builds the live view. fps is the number of batches per second.
func NewModel(s *session.Session, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		sess:     s,
		interval: time.Second / time.Duration(fps),
		vacant:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render(vacantGlyph),
	}
	m.paintDisks()
	return m
}

func (m *Model) paintDisks() {
	species := m.sess.Species()
	m.disks = make([]string, species.Len())
	for i, sp := range species {
		m.disks[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(sp.Color)).Render(disk)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and runs one batch per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.err = m.sess.Toggle()
		case "r":
			m.err = m.sess.Reset()
		case "n":
			m.err = m.sess.Reseed(time.Now().UnixNano())
		case "+", "=":
			m.sess.NextImmigrationInterval(1)
		case "-", "_":
			m.sess.NextImmigrationInterval(-1)
		case "right", "l":
			m.err = m.sess.SetResourceSplit(min(100, m.sess.Config().Competition.ResourceSplit+splitIncrement))
		case "left", "h":
			m.err = m.sess.SetResourceSplit(max(0, m.sess.Config().Competition.ResourceSplit-splitIncrement))
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.sess.State() == session.Running {
			if _, err := m.sess.Tick(); err != nil {
				m.err = err
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// View repaints the whole grid; nothing is diffed.
func (m Model) View() string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridStyle.Render(m.renderGrid()), statsStyle.Render(m.renderStats()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) renderGrid() string {
	g := m.sess.World().Grid()
	side := g.Side()
	var b strings.Builder
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			sp := g.At(g.Index(col, row))
			if sp == grove.Vacant {
				b.WriteString(m.vacant)
			} else {
				b.WriteString(m.disks[sp])
			}
			if col < side-1 {
				b.WriteByte(' ')
			}
		}
		if row < side-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) status() string {
	switch m.sess.State() {
	case session.Running:
		return StatusRunning.Render("RUNNING")
	case session.Paused:
		if c := m.sess.World().Ceiling(); c > 0 && m.sess.Clock() >= c {
			return StatusPaused.Render("PAUSED (step ceiling)")
		}
		return StatusPaused.Render("PAUSED")
	case session.Done:
		return StatusDone.Render("DONE (extinction)")
	default:
		return StatusIdle.Render("IDLE")
	}
}

func (m Model) renderStats() string {
	cfg := m.sess.Config()
	census := m.sess.Census()
	species := m.sess.Species()
	total := m.sess.World().Grid().Len()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(cfg.Variant)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d", m.sess.Clock())) + "\n")
	s.WriteString(MetricLabel.Render("Richness") + MetricValue.Render(fmt.Sprintf("%d/%d", census.Richness(), species.Len())) + "\n")
	s.WriteString(MetricLabel.Render("Seed") + MetricValue.Render(fmt.Sprintf("%d", cfg.Seed)) + "\n")
	switch cfg.Variant {
	case "immigration":
		s.WriteString(MetricLabel.Render("Interval") + MetricValue.Render(fmt.Sprintf("%d", cfg.Immigration.Interval)) + "\n")
	case "competition":
		s.WriteString(MetricLabel.Render("Split") + MetricValue.Render(fmt.Sprintf("%.0f/%.0f", cfg.Competition.ResourceSplit, 100-cfg.Competition.ResourceSplit)) + "\n")
		if c, ok := m.sess.World().Rule().(*grove.Competition); ok {
			fA, fB := c.Pressure(m.sess.World())
			s.WriteString(MetricLabel.Render("Pressure") + MetricValue.Render(fmt.Sprintf("%.3f/%.3f", fA, fB)) + "\n")
		}
	case "distancing":
		s.WriteString(MetricLabel.Render("Vacant") + MetricValue.Render(fmt.Sprintf("%d", census.Vacant())) + "\n")
	}

	s.WriteString("\nCENSUS\n")
	for i, sp := range species {
		n := census.Count(grove.SpeciesID(i))
		s.WriteString(fmt.Sprintf("%-4s %s %4d\n", sp.Name, ShareBar(float64(n)/float64(total), 24, sp.Color), n))
	}

	if chart := m.renderHistory(); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(ErrorText.Render(m.err.Error()) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Run/Pause R:Reset N:New seed Q:Quit ?:Help"))
	return s.String()
}

func (m Model) renderHistory() string {
	tl := m.sess.Timeline()
	if len(tl.Samples) < 2 {
		return ""
	}
	from := max(0, len(tl.Samples)-historyWindow)
	species := m.sess.Species()
	series := make([][]float64, 0, species.Len())
	for i := range species {
		series = append(series, tl.Series(grove.SpeciesID(i))[from:])
	}
	return asciigraph.PlotMany(series, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("census"))
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Start / pause / resume   ║
║  R        - Reset (same seed)        ║
║  N        - Reset (new seed)         ║
║  + / -    - Immigration interval     ║
║  ← / →    - Resource split ±5        ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
