package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/record/internal/models"
)

// Outcome tells the caller what the user asked for when the timer closed.
type Outcome int

const (
	// OutcomeKeep leaves the session open.
	OutcomeKeep Outcome = iota
	// OutcomeEnd asks the caller to end the session.
	OutcomeEnd
)

type timerKeyMap struct {
	End  key.Binding
	Quit key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.End, k.Quit} }
func (k timerKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var timerKeys = timerKeyMap{
	End: key.NewBinding(
		key.WithKeys("e", "E"),
		key.WithHelp("e", "end session"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "exit (keep running)"),
	),
}

// TimerModel shows the open session with a live elapsed-time clock.
type TimerModel struct {
	width  int
	height int

	record    models.Record
	startedAt time.Time
	now       func() time.Time
	elapsed   time.Duration

	help    help.Model
	outcome Outcome
	done    bool
}

// timerTickMsg is sent every second to refresh the clock
type timerTickMsg time.Time

// NewTimerModel creates a timer for an open record.
func NewTimerModel(record models.Record, now func() time.Time) (TimerModel, error) {
	startedAt, err := record.StartedAt()
	if err != nil {
		return TimerModel{}, fmt.Errorf("invalid start time %q: %w", record.StartTime, err)
	}
	if now == nil {
		now = time.Now
	}
	return TimerModel{
		record:    record,
		startedAt: startedAt,
		now:       now,
		elapsed:   now().Sub(startedAt),
		help:      help.New(),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// Init starts the ticker
func (m TimerModel) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.now().Sub(m.startedAt)
		if m.done {
			return m, nil
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, timerKeys.End):
			m.outcome = OutcomeEnd
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, timerKeys.Quit):
			m.outcome = OutcomeKeep
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// Outcome reports what the user chose.
func (m TimerModel) Outcome() Outcome {
	return m.outcome
}

// View renders the timer
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(timerKeys))

	panel := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(m.renderPanel(m.width))

	return lipgloss.JoinVertical(lipgloss.Left, panel, helpBar)
}

func (m TimerModel) renderPanel(width int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	var components []string
	components = append(components, center.
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render(fmt.Sprintf("#%d  %s", m.record.ID, m.record.Task)))

	components = append(components, center.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(truncate(m.record.Case, width-4)))

	if m.record.Contents != "" {
		components = append(components, center.
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Render(truncate(m.record.Contents, width-4)))
	}

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, center.Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	components = append(components, center.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render("Started at "+m.startedAt.Format(models.ClockLayout)))

	return strings.Join(components, "\n\n")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// bigDigits is 5-row block art for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// FormatElapsed renders d as HH:MM:SS, or MM:SS under an hour.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func renderBigClock(d time.Duration) string {
	var lines [5]strings.Builder
	for _, ch := range FormatElapsed(d) {
		art, ok := bigDigits[ch]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

// RunTimerTUI shows the timer full screen until the user leaves and returns
// what they chose. Ending the session is left to the caller.
func RunTimerTUI(record models.Record) (Outcome, error) {
	model, err := NewTimerModel(record, time.Now)
	if err != nil {
		return OutcomeKeep, err
	}

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return OutcomeKeep, err
	}
	if m, ok := finalModel.(TimerModel); ok {
		return m.Outcome(), nil
	}
	return OutcomeKeep, nil
}

// RenderStatus is the plain, non-interactive status block.
func RenderStatus(record models.Record, now time.Time) string {
	startedAt, err := record.StartedAt()
	elapsed := "?"
	if err == nil {
		elapsed = FormatElapsed(now.Sub(startedAt))
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)

	rows := [][2]string{
		{"Session", fmt.Sprintf("#%d", record.ID)},
		{"Case", record.Case},
		{"Task", record.Task},
		{"Contents", record.Contents},
		{"Started", record.StartTime},
		{"Elapsed", elapsed},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(label.Render(fmt.Sprintf("%-9s", row[0])))
		b.WriteString(" ")
		b.WriteString(value.Render(row[1]))
		b.WriteString("\n")
	}
	return b.String()
}
