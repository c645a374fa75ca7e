package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/editor"
	"github.com/justyntemme/mbsync/pkg/engine"
	"github.com/justyntemme/mbsync/pkg/framework/debug"
	"github.com/justyntemme/mbsync/pkg/metering"
)

const (
	meterWidth = 36
	meterFloor = -60.0 // dB at the left edge of a meter
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7dcfff"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	labelStyle    = lipgloss.NewStyle().Width(6)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	bypassedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	meterLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	meterHot      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	meterClip     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type refreshMsg struct{}

func listenForRefresh(d *displayState) tea.Cmd {
	return func() tea.Msg {
		<-d.updates
		return refreshMsg{}
	}
}

type model struct {
	editor   *editor.Editor
	engine   *engine.Engine
	display  *displayState
	recorder *automationRecorder
	profiler *debug.Profiler
	title    string
}

func (m model) Init() tea.Cmd {
	return listenForRefresh(m.display)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "1":
			m.editor.ToggleBandBypass(band.Low)
		case "2":
			m.editor.ToggleBandBypass(band.Mid)
		case "3":
			m.editor.ToggleBandBypass(band.High)
		case "g":
			m.editor.ClickGlobalBypass()
		case "a":
			m.editor.ClickAnalyzer()
		}
	case refreshMsg:
		return m, listenForRefresh(m.display)
	}
	return m, nil
}

func (m model) View() string {
	v := m.display.view()

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for _, bd := range band.All() {
		b.WriteString(m.bandRow(bd, v.level(bd)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(toggle("Bypass All", v.global))
	b.WriteString("   ")
	analyzer := dimStyle.Render("Analyzer off")
	if v.analysis {
		analyzer = activeStyle.Render("Analyzer on")
	}
	b.WriteString(analyzer)
	if v.forced != nil {
		state := "active"
		if *v.forced {
			state = "bypassed"
		}
		b.WriteString(statusStyle.Render("   band controls: all " + state))
	}
	b.WriteString("\n\n")

	edits, last, misused := m.recorder.summary()
	status := fmt.Sprintf("automation events: %d", edits)
	if last != "" {
		status += "  last: " + last
	}
	if misused > 0 {
		status += fmt.Sprintf("  protocol errors: %d", misused)
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	frames := fmt.Sprintf("frames published: %d  ticks: %d", m.engine.Snapshot().Version(), m.editor.Scheduler().Ticks())
	if meas, ok := m.profiler.Measurement("editor.tick"); ok {
		frames += fmt.Sprintf("  tick avg %v p99 %v", meas.Average(), meas.Percentile(99))
	}
	b.WriteString(statusStyle.Render(frames))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("1/2/3 bypass band  g bypass all  a analyzer  q quit"))

	return boxStyle.Render(b.String()) + "\n"
}

func (m model) bandRow(bd band.Band, lvl metering.LevelPair) string {
	bypassed := m.editor.BandBypass(bd)
	label := bd.String()
	if p := m.engine.Parameters().Get(engine.BypassParamID(bd)); p != nil {
		label = p.ShortName
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		toggle("", bypassed), " ",
		"in ", meter(lvl.InputDB), fmt.Sprintf(" %6.1f", lvl.InputDB), "  ",
		"out ", meter(lvl.OutputDB), fmt.Sprintf(" %6.1f dB", lvl.OutputDB),
	)
}

func toggle(label string, bypassed bool) string {
	text := "[ active ]"
	style := activeStyle
	if bypassed {
		text = "[bypassed]"
		style = bypassedStyle
	}
	if label != "" {
		text = label + " " + text
	}
	return style.Render(text)
}

// meter draws a horizontal bar from meterFloor to 0 dB
func meter(db float64) string {
	frac := (db - meterFloor) / -meterFloor
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	filled := int(frac*meterWidth + 0.5)

	style := meterLow
	switch {
	case db > -1:
		style = meterClip
	case db > -12:
		style = meterHot
	}

	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("·", meterWidth-filled))
}
