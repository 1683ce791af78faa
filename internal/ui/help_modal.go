package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal lists keyboard shortcuts and commands
type HelpModal struct {
	Modal
}

// NewHelpModal creates a new HelpModal instance
func NewHelpModal() HelpModal {
	return HelpModal{
		Modal: NewModal("", 80, 30), // Sized on first WindowSizeMsg
	}
}

// SetSize fits the modal to the terminal
func (m *HelpModal) SetSize(width, height int) {
	modalWidth := int(float64(width) * 0.75)
	modalHeight := height - 8

	if modalWidth < 50 {
		modalWidth = 50
	}
	if modalHeight < 20 {
		modalHeight = 20
	}
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	m.width = modalWidth
	m.height = modalHeight
}

// Update handles input for the help modal
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			m.Hide()
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

// View renders the help modal
func (m HelpModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	inner := m.width - 4
	center := func(s string) string {
		return strings.Repeat(" ", max(0, (inner-lipgloss.Width(s))/2)) + s
	}

	sectionStyle := lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(theme.Purple).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.White)
	noteStyle := lipgloss.NewStyle().Foreground(theme.Gray).Italic(true)

	row := func(key, desc string) string {
		return "  " + keyStyle.Render(key) +
			strings.Repeat(" ", max(0, 14-lipgloss.Width(key))) +
			descStyle.Render(desc)
	}

	// Two columns when there is room
	pair := func(key1, desc1, key2, desc2 string) string {
		if m.width <= 70 {
			return row(key1, desc1) + "\n" + row(key2, desc2)
		}
		col1 := row(key1, desc1)
		spacing := max(2, m.width/2-lipgloss.Width(col1))
		return col1 + strings.Repeat(" ", spacing) + row(key2, desc2)
	}

	section := func(title string) string {
		head := "── " + title + " "
		return sectionStyle.Render(head + strings.Repeat("─", max(0, m.width-8-lipgloss.Width(head))))
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render(center("KEYBOARD SHORTCUTS")))
	b.WriteString("\n\n")
	b.WriteString(noteStyle.Render(center("More videos load as you scroll toward the end of the feed")))
	b.WriteString("\n\n")

	b.WriteString(section("FEED"))
	b.WriteString("\n")
	b.WriteString(pair("j/↓", "Move down", "g", "Jump to top"))
	b.WriteString("\n")
	b.WriteString(pair("k/↑", "Move up", "G", "Jump to bottom"))
	b.WriteString("\n")
	b.WriteString(pair("Enter", "Play video", "r", "Retry / reshuffle"))
	b.WriteString("\n\n")

	b.WriteString(section("PLAYER"))
	b.WriteString("\n")
	b.WriteString(pair("j/k", "Pick suggestion", "Enter", "Play suggestion"))
	b.WriteString("\n")
	b.WriteString(pair("o", "Reopen player", "y", "Copy playback URL"))
	b.WriteString("\n")
	b.WriteString(pair("PgUp/PgDn", "Scroll details", "Esc", "Back to feed"))
	b.WriteString("\n\n")

	b.WriteString(section("COMMAND MODE (:)"))
	b.WriteString("\n")
	b.WriteString(pair(":retry", "Retry failed load", ":refresh", "Reload and reshuffle"))
	b.WriteString("\n")
	b.WriteString(pair(":play", "Play selection", ":open", "Reopen player"))
	b.WriteString("\n")
	b.WriteString(pair(":yank [url|title|id]", "Copy to clipboard", ":back", "Back to feed"))
	b.WriteString("\n")
	b.WriteString(pair(":theme", "Cycle themes", ":quit", "Exit"))
	b.WriteString("\n\n")

	b.WriteString(noteStyle.Render(center("Press ESC or ? to close")))

	return m.Frame(b.String(), theme)
}

// ViewWithOverlay renders the modal over the blanked background
func (m HelpModal) ViewWithOverlay(backgroundView string, width, height int, theme StyleTheme) string {
	if !m.visible {
		return backgroundView
	}
	return m.Overlay(backgroundView, m.View(theme), width, height)
}
