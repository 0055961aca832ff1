package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/8ff/gestures/activitylog"
	"github.com/8ff/gestures/internal/logx"
)

// stepInterval is how often the TUI feeds the next log entry through
// the chain. Replay is not real-time: a fixed cadence keeps long idle
// stretches in a recorded session from stalling the display.
const stepInterval = 15 * time.Millisecond

type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(stepInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

type tuiStyles struct {
	header lipgloss.Style
	footer lipgloss.Style
	pane   lipgloss.Style
}

func newTUIStyles() tuiStyles {
	return tuiStyles{
		header: lipgloss.NewStyle().
			Background(lipgloss.Color("#5C5C5C")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),
		footer: lipgloss.NewStyle().
			Background(lipgloss.Color("#3C3C3C")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),
		pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#5C5C5C")),
	}
}

// tuiModel steps a parsed activity log through a fresh chain, one
// entry per tick, rendering frames on the left and the gestures they
// reproduce on the right.
type tuiModel struct {
	replay  *activitylog.Replay
	entries []activitylog.Entry
	pos     int
	paused  bool

	frameVP   viewport.Model
	gestureVP viewport.Model
	frames    []string
	gestures  []string

	width, height int
	styles        tuiStyles
}

func newTUIModel(replay *activitylog.Replay, parsed *activitylog.ParsedLog) *tuiModel {
	return &tuiModel{
		replay:  replay,
		entries: parsed.Entries,
		styles:  newTUIStyles(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tick()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLayout()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "up", "down", "pgup", "pgdown":
			m.gestureVP, cmd = m.gestureVP.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tickMsg:
		if !m.paused {
			m.stepOne()
		}
		if m.pos < len(m.entries) {
			cmds = append(cmds, tick())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *tuiModel) stepOne() {
	if m.pos >= len(m.entries) {
		return
	}
	e := m.entries[m.pos]
	m.pos++

	if line := describeEntry(e); line != "" {
		m.frames = append(m.frames, line)
		m.frameVP.SetContent(strings.Join(m.frames, "\n"))
		m.frameVP.GotoBottom()
	}
	for _, g := range m.replay.Step(e) {
		m.gestures = append(m.gestures, describeGesture(g))
	}
	m.gestureVP.SetContent(strings.Join(m.gestures, "\n"))
	m.gestureVP.GotoBottom()
}

func (m *tuiModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := m.styles.header.Width(m.width).Render("gestures-replay")
	footer := m.styles.footer.Width(m.width).Render(m.footerText())

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	paneHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2

	left := m.styles.pane.Width(leftWidth - 2).Height(paneHeight).Render(m.frameVP.View())
	right := m.styles.pane.Width(rightWidth - 2).Height(paneHeight).Render(m.gestureVP.View())
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m *tuiModel) footerText() string {
	state := "playing"
	if m.paused {
		state = "paused"
	}
	if m.pos >= len(m.entries) {
		state = "done"
	}
	return fmt.Sprintf("%d/%d entries | %d gestures | %s | Space: Pause | Up/Down: Scroll | q: Quit",
		m.pos, len(m.entries), len(m.gestures), state)
}

func (m *tuiModel) resizeLayout() {
	headerHeight := lipgloss.Height(m.styles.header.Render(""))
	footerHeight := lipgloss.Height(m.styles.footer.Render(""))

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	paneHeight := m.height - headerHeight - footerHeight - 2

	m.frameVP.Width = leftWidth - 2
	m.frameVP.Height = paneHeight
	m.frameVP.SetContent(strings.Join(m.frames, "\n"))

	m.gestureVP.Width = rightWidth - 2
	m.gestureVP.Height = paneHeight
	m.gestureVP.SetContent(strings.Join(m.gestures, "\n"))
}

func describeEntry(e activitylog.Entry) string {
	switch e.Kind {
	case activitylog.EntryHardwareState:
		return fmt.Sprintf("[%7.3f] frame   fingers=%d buttons=%03b",
			e.HWState.Timestamp.Seconds(), e.HWState.FingerCnt, e.HWState.ButtonsDown)
	case activitylog.EntryTimerFire:
		return fmt.Sprintf("[%7.3f] timer", e.TimerTime.Seconds())
	case activitylog.EntryPropChange:
		return fmt.Sprintf("          prop    %s", e.Prop.Name)
	default:
		return ""
	}
}

func runTUI(replay *activitylog.Replay, parsed *activitylog.ParsedLog, log *logx.Logger) error {
	p := tea.NewProgram(newTUIModel(replay, parsed), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	log.Infof("replay produced %d gestures", len(replay.Produced))
	return nil
}
