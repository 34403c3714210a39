package sim

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"geosentry/internal/anomaly"
	"geosentry/internal/track"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// eventMsg carries a geofence event into the model.
type eventMsg struct{ track.GeofenceEvent }

// verdictMsg carries an anomaly verdict into the model.
type verdictMsg struct{ anomaly.Verdict }

// refreshMsg triggers an entity table refresh.
type refreshMsg struct{}

const (
	maxLogLines     = 200
	refreshInterval = time.Second
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func severityStyle(s track.Severity) lipgloss.Style {
	switch s {
	case track.SeverityCritical:
		return criticalStyle
	case track.SeverityHigh:
		return highStyle
	case track.SeverityMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

// TUIWriter renders live entity positions, geofence events, and anomaly
// verdicts in the terminal.
type TUIWriter struct {
	prog     teaProgram
	snapshot func() []EntityStatus
}

// NewTUIWriter creates the writer; Start must be called to render.
func NewTUIWriter(snapshot func() []EntityStatus) *TUIWriter {
	return &TUIWriter{snapshot: snapshot}
}

// Start runs the bubbletea program until the user quits. It blocks, so
// callers run it on the main goroutine while the runner ticks elsewhere.
func (w *TUIWriter) Start() error {
	m := newTUIModel(w.snapshot)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.prog = p
	_, err := p.Run()
	return err
}

// WriteEvent forwards a geofence event to the running view.
func (w *TUIWriter) WriteEvent(e track.GeofenceEvent) error {
	if w.prog != nil {
		w.prog.Send(eventMsg{e})
	}
	return nil
}

// WriteVerdict forwards an anomaly verdict to the running view.
func (w *TUIWriter) WriteVerdict(v anomaly.Verdict) error {
	if w.prog != nil {
		w.prog.Send(verdictMsg{v})
	}
	return nil
}

type tuiModel struct {
	snapshot func() []EntityStatus
	entities table.Model
	log      viewport.Model
	lines    []string
	width    int
	ready    bool
}

func newTUIModel(snapshot func() []EntityStatus) *tuiModel {
	cols := []table.Column{
		{Title: "Entity", Width: 14},
		{Title: "Lat", Width: 10},
		{Title: "Lon", Width: 10},
		{Title: "Zones", Width: 28},
		{Title: "Events", Width: 6},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(10))
	return &tuiModel{snapshot: snapshot, entities: t}
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m *tuiModel) Init() tea.Cmd {
	return scheduleRefresh()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		logHeight := msg.Height - m.entities.Height() - 4
		if logHeight < 3 {
			logHeight = 3
		}
		m.log = viewport.New(msg.Width, logHeight)
		m.ready = true
		m.renderLog()
	case refreshMsg:
		m.refreshEntities()
		return m, scheduleRefresh()
	case eventMsg:
		line := fmt.Sprintf("%s %s %s zone=%s %s",
			msg.Timestamp.Format("15:04:05"),
			severityStyle(msg.Severity).Render(strings.ToUpper(string(msg.Severity))),
			msg.Type, msg.ZoneName, msg.Message)
		m.appendLine(line)
	case verdictMsg:
		line := fmt.Sprintf("%s %s %s conf=%.2f %s",
			msg.Timestamp.Format("15:04:05"),
			severityStyle(msg.Severity).Render(strings.ToUpper(string(msg.Severity))),
			msg.Type, msg.Confidence, msg.Description)
		m.appendLine(line)
	}
	var cmd tea.Cmd
	m.entities, cmd = m.entities.Update(msg)
	return m, cmd
}

func (m *tuiModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.renderLog()
}

func (m *tuiModel) renderLog() {
	if !m.ready {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.log.SetContent(wordwrap.String(strings.Join(m.lines, "\n"), width))
	m.log.GotoBottom()
}

func (m *tuiModel) refreshEntities() {
	statuses := m.snapshot()
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].EntityID < statuses[j].EntityID })
	rows := make([]table.Row, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, table.Row{
			s.EntityID,
			fmt.Sprintf("%.4f", s.Lat),
			fmt.Sprintf("%.4f", s.Lon),
			strings.Join(s.Zones, ","),
			fmt.Sprintf("%d", s.EventCount),
		})
	}
	m.entities.SetRows(rows)
}

func (m *tuiModel) View() string {
	if !m.ready {
		return "starting..."
	}
	header := titleStyle.Render("geosentry: live entities and alerts (q to quit)")
	return header + "\n" + m.entities.View() + "\n" + m.log.View()
}
