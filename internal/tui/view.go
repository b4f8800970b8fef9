package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/stacktrace/internal/analytics"
	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/config"
)

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	panes := []string{PaneStyle.Render(m.renderDashboard())}
	if m.showInventory {
		panes = append(panes, PaneStyle.Render(m.renderInventory()))
	}
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	footer := m.renderFooter()

	logWidth := m.width - 4 // border and padding
	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(topRow) - lipgloss.Height(footer) - 2
	if logWidth < 1 {
		logWidth = 1
	}
	if logHeight < 1 {
		logHeight = 1
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	logPane := ActivePaneStyle.Width(logWidth).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, logPane, footer)
}

func (m *Model) renderHeader() string {
	settings := m.snapshot.Settings
	return HeaderStyle.Render(fmt.Sprintf("StackTrace · %s · %d decks · %s input",
		m.system.Name, settings.Decks, settings.InputMode))
}

func (m *Model) renderDashboard() string {
	state := m.snapshot.State

	tcStyle := ValueStyle
	switch state.Signal() {
	case analytics.Favorable:
		tcStyle = FavorableStyle
	case analytics.Unfavorable:
		tcStyle = UnfavorableStyle
	}

	rows := [][2]string{
		{"Running count", ValueStyle.Render(formatCount(state.RunningCount))},
		{"True count", tcStyle.Render(fmt.Sprintf("%+.2f", state.TrueCount))},
		{"Decks left", ValueStyle.Render(fmt.Sprintf("%.3f", state.DecksRemaining))},
		{"Penetration", ValueStyle.Render(fmt.Sprintf("%.1f%%", state.Penetration))},
		{"Advantage", tcStyle.Render(fmt.Sprintf("%+.2f%%", state.Advantage))},
		{"Cards seen", ValueStyle.Render(fmt.Sprintf("%d / %d", state.CardsSeen, state.CardsSeen+state.CardsRemaining))},
	}

	var content strings.Builder
	content.WriteString(WarningStyle.Render(m.system.Name))
	content.WriteString("\n")
	for _, row := range rows {
		content.WriteString(LabelStyle.Render(fmt.Sprintf("%-14s", row[0])))
		content.WriteString(row[1])
		content.WriteString("\n")
	}
	content.WriteString(InfoStyle.Render(m.renderInputHint()))
	return content.String()
}

func (m *Model) renderInputHint() string {
	if m.snapshot.Settings.InputMode == config.InputSimple {
		parts := make([]string, 0, len(cards.Groups()))
		for _, group := range cards.Groups() {
			parts = append(parts, fmt.Sprintf("%s %s (%s)",
				strings.ToLower(group.Label()[:1]), group.Label(), group.Span()))
		}
		return strings.Join(parts, "  ")
	}
	return "2-9 0/t j q k a"
}

func (m *Model) renderInventory() string {
	state := m.snapshot.State

	var content strings.Builder
	content.WriteString(WarningStyle.Render("Remaining"))
	content.WriteString("\n")
	for _, rank := range cards.Ranks() {
		count := state.Composition.Count(rank)
		line := fmt.Sprintf("%-3s %3d %5.1f%%", rank, count, state.Composition.Probability(rank, state.CardsRemaining))
		content.WriteString(groupStyle(cards.GroupOf(rank)).Render(line))
		content.WriteString("\n")
	}
	return strings.TrimSuffix(content.String(), "\n")
}

// renderLog lists events newest first
func (m *Model) renderLog() string {
	events := m.snapshot.Events
	if len(events) == 0 {
		return InfoStyle.Render("No cards recorded")
	}

	lines := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		weight := m.system.Weight(event.Rank)
		line := fmt.Sprintf("#%-4d %s  %-3s %s",
			i+1, event.Timestamp.Format("15:04:05"), event.Rank, formatWeight(weight))
		if event.Label != "" {
			line += "  " + InfoStyle.Render(event.Label)
		}
		lines = append(lines, weightStyle(m.system.Sign(event.Rank)).Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var content strings.Builder
	if m.status != "" {
		if m.statusIsError {
			content.WriteString(UnfavorableStyle.Render(m.status))
		} else {
			content.WriteString(FavorableStyle.Render(m.status))
		}
		content.WriteString("\n")
	}
	content.WriteString(m.help.View(m.keys))
	return content.String()
}

func groupStyle(group cards.Group) lipgloss.Style {
	switch group {
	case cards.Low:
		return LowStyle
	case cards.Neutral:
		return NeutralStyle
	default:
		return HighStyle
	}
}

// weightStyle colours log lines by the direction they moved the count
func weightStyle(sign int) lipgloss.Style {
	switch {
	case sign > 0:
		return LowStyle
	case sign < 0:
		return HighStyle
	default:
		return NeutralStyle
	}
}

func formatCount(rc float64) string {
	if rc == 0 {
		return "0"
	}
	return fmt.Sprintf("%+g", rc)
}

func formatWeight(weight float64) string {
	if weight == 0 {
		return " 0"
	}
	return fmt.Sprintf("%+g", weight)
}
