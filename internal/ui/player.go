package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/reelfeed/internal/media"
)

// playerLayout returns the widths of the info panel and the suggestion list
func (m Model) playerLayout() (int, int) {
	listWidth := max(m.width*2/5, 30)
	infoWidth := max(m.width-listWidth-1, 20)
	return infoWidth, listWidth
}

// buildItemMarkdown describes the active item as markdown for the info panel
func buildItemMarkdown(item media.Item, loading bool, player string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", item.Title)

	if loading {
		b.WriteString("*Starting player...*\n\n")
	} else if player != "" {
		fmt.Fprintf(&b, "*Playing in %s*\n\n", player)
	}

	b.WriteString("## Details\n\n")
	if item.SizeBytes > 0 {
		fmt.Fprintf(&b, "- **Size:** %s\n", formatSize(item.SizeBytes))
	}
	if !item.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Added:** %s (%s ago)\n",
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
			formatTime(time.Since(item.CreatedAt)))
	}
	fmt.Fprintf(&b, "- **ID:** `%s`\n", item.ID)
	b.WriteString("\n## Links\n\n")
	fmt.Fprintf(&b, "- %s\n", item.PlaybackURL)
	if item.HasThumbnail() {
		fmt.Fprintf(&b, "- %s\n", item.ThumbnailURL)
	}

	return b.String()
}

// renderMarkdown renders markdown with the theme's glamour style, falling
// back to wrapped plain text when glamour fails
func renderMarkdown(md string, width int, theme StyleTheme) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(theme.ToGlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wrapText(md, width)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return wrapText(md, width)
	}
	return strings.Trim(out, "\n")
}

// updatePlayerContent refreshes the info panel for the active item
func (m *Model) updatePlayerContent() {
	item, ok := m.session.Active()
	if !ok {
		m.viewport.SetContent("No video selected")
		return
	}

	infoWidth, _ := m.playerLayout()
	m.viewport.Width = infoWidth - 2 // padding
	m.viewport.Height = m.contentHeight()

	player := ""
	if m.player != nil {
		player = m.player.Player()
	}

	md := buildItemMarkdown(item, m.session.Loading(), player)
	m.viewport.SetContent(renderMarkdown(md, m.viewport.Width, m.theme()))
	m.viewport.GotoTop()
}

// RenderPlayer renders the playback view: item info on the left, the
// suggestion list on the right
func RenderPlayer(m Model) string {
	if m.width == 0 {
		return "Loading..."
	}

	theme := m.theme()
	suggestions := m.session.Suggestions()

	right := fmt.Sprintf("Up next: %d", len(suggestions))
	if m.session.Loading() {
		right = m.spinner.View() + " " + right
	}
	header := renderHeader(" REELFEED ▸ NOW PLAYING", right, m.width, theme)

	infoWidth, listWidth := m.playerLayout()
	contentHeight := m.contentHeight()

	infoStyle := theme.BorderStyle().
		BorderRight(true).
		Width(infoWidth).
		Height(contentHeight).
		Padding(0, 1)

	listStyle := lipgloss.NewStyle().
		Width(listWidth).
		Height(contentHeight).
		Padding(0, 1)

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		infoStyle.Render(m.viewport.View()),
		listStyle.Render(renderSuggestions(suggestions, m.playCursor, listWidth-2, contentHeight, theme)),
	)

	status := renderStatusBar(m, "j/k:navigate  enter:play next  o:reopen player  y:yank URL  esc:back  ?:help")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		main,
		status,
	)
}

func renderSuggestions(items []media.Item, cursor, width, height int, theme StyleTheme) string {
	heading := lipgloss.NewStyle().
		Foreground(theme.Gray).
		Render("── UP NEXT " + strings.Repeat("─", max(0, width-11)))

	if len(items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, "",
			theme.MutedStyle().Italic(true).Render("Nothing else to watch."))
	}

	// Two lines are taken by the heading
	start, end := visibleWindow(cursor, len(items), max((height-2)/itemHeight, 1))

	lines := []string{heading, ""}
	for i := start; i < end; i++ {
		lines = append(lines, renderItemRow(items[i], i, i == cursor, width, theme)...)
	}
	return strings.Join(lines, "\n")
}
