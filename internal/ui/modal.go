package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal holds the shared state of an overlay: size and visibility
type Modal struct {
	title   string
	width   int
	height  int
	visible bool
}

// NewModal creates a hidden modal
func NewModal(title string, width, height int) Modal {
	return Modal{
		title:  title,
		width:  width,
		height: height,
	}
}

// Show makes the modal visible
func (m *Modal) Show() {
	m.visible = true
}

// Hide makes the modal invisible
func (m *Modal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is currently visible
func (m Modal) IsVisible() bool {
	return m.visible
}

// Frame wraps content in the modal border, with the title on top
func (m Modal) Frame(content string, theme StyleTheme) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Cyan).
		Width(m.width).
		Height(m.height).
		Padding(1, 2)

	if m.title == "" {
		return style.Render(content)
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Cyan).
		MarginBottom(1).
		Render(m.title)
	return style.Render(title + "\n" + content)
}

// Overlay centers modalView over the background. The background's first
// line (the header bar) is kept; the rest is blanked.
func (m Modal) Overlay(backgroundView, modalView string, termWidth, termHeight int) string {
	if !m.visible {
		return backgroundView
	}

	bgLines := strings.Split(backgroundView, "\n")
	for i := 1; i < len(bgLines); i++ {
		bgLines[i] = strings.Repeat(" ", termWidth)
	}

	modalLines := strings.Split(modalView, "\n")
	modalWidth := m.width + 4 // border and padding

	startY := max(0, (termHeight-len(modalLines))/2)
	startX := max(0, (termWidth-modalWidth)/2)

	result := make([]string, max(len(bgLines), startY+len(modalLines)))
	copy(result, bgLines)

	padding := strings.Repeat(" ", startX)
	for i, line := range modalLines {
		result[startY+i] = padding + line
	}

	return strings.Join(result, "\n")
}
