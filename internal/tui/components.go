package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderChips lays out numbered shortcuts ("1 Ransomware  2 Phishing") on
// one line, dropping whatever does not fit in width.
func renderChips(label string, entries []string, keyPrefix string, width int) string {
	if len(entries) == 0 {
		return ""
	}
	parts := []string{renderMuted(label)}
	used := lipgloss.Width(parts[0])
	for i, e := range entries {
		chip := ChipKeyStyle.Render(fmt.Sprintf("%s%d", keyPrefix, i+1)) + ChipStyle.Render(e)
		if used+lipgloss.Width(chip)+1 > width && i > 0 {
			break
		}
		parts = append(parts, chip)
		used += lipgloss.Width(chip) + 1
	}
	return strings.Join(parts, " ")
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderMuted renders text in muted color (utility wrapper).
func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

// renderHelp renders help/instructional text consistently.
func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

func renderSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}
