package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/reelfeed/internal/feed"
	"github.com/nickpending/reelfeed/internal/media"
)

// itemHeight is the number of lines each feed row takes
const itemHeight = 2

// buildViewStateString creates a formatted string showing current feed state
func buildViewStateString(st feed.State) string {
	var states []string

	states = append(states, fmt.Sprintf("Videos: %d/%d", len(st.Items), st.Total))
	states = append(states, fmt.Sprintf("Page: %d", st.Page+1))

	switch st.Status {
	case feed.Idle, feed.Loading:
		states = append(states, "Status: LOADING")
	case feed.Errored:
		states = append(states, "Status: ERROR")
	case feed.Exhausted:
		states = append(states, "Status: END")
	default:
		states = append(states, "Status: READY")
	}

	return strings.Join(states, " | ")
}

// renderHeader builds the gradient title bar
func renderHeader(title, right string, width int, theme StyleTheme) string {
	rightString := fmt.Sprintf("%s  ◆ %s ", right, time.Now().Format("15:04"))
	availableWidth := width - lipgloss.Width(title) - lipgloss.Width(rightString)

	spacing := "  " // Minimum spacing
	if availableWidth > 0 {
		spacing = strings.Repeat(" ", availableWidth)
	}

	return RenderWithGradientBackground(title+spacing+rightString, width, theme.GradientStart, theme.GradientEnd)
}

// renderStatusBar renders the bottom line: command mode, a status message or key hints
func renderStatusBar(m Model, hints string) string {
	theme := m.theme()
	if m.commandMode.IsActive() {
		return m.commandMode.View(theme)
	}

	statusStyle := theme.StatusBarStyle().
		Width(m.width).
		Padding(0, 1)

	statusText := hints
	if m.statusMessage != "" {
		style := theme.SelectedStyle()
		if strings.HasPrefix(m.statusMessage, "✓") {
			style = theme.SuccessStyle().Bold(true)
		}
		statusText = style.Render(m.statusMessage)
	}
	return statusStyle.Render(statusText)
}

// RenderFeed renders the feed view with clean cyber styling
func RenderFeed(m Model) string {
	if m.width == 0 {
		return "Loading..."
	}

	theme := m.theme()
	st := m.state

	header := renderHeader(" REELFEED", buildViewStateString(st), m.width, theme)

	contentHeight := m.contentHeight()
	var body string
	switch {
	case st.Status == feed.Errored:
		body = renderError(m, theme)
	case len(st.Items) == 0 && (st.Status == feed.Idle || st.Status == feed.Loading):
		body = renderLoading(m, theme)
	case len(st.Items) == 0:
		body = renderEmptyState(theme)
	default:
		body = renderItemList(m, m.width-2, theme)
	}

	main := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Padding(0, 1).
		Render(body)

	status := renderStatusBar(m, "j/k:navigate  g/G:top/bottom  enter:play  y:yank  r:retry  ?:help  ::command  q:quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		main,
		status,
	)
}

// contentHeight is the height left for the body (header + empty line + status)
func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

// maxVisibleItems is the number of feed rows that fit on screen
func (m Model) maxVisibleItems() int {
	// One line is reserved for the end-of-feed marker
	return max((m.contentHeight()-1)/itemHeight, 1)
}

// visibleWindow returns the [start, end) range of rows to render so the
// cursor stays on screen with a little context below it
func visibleWindow(cursor, n, maxVisible int) (int, int) {
	if n == 0 || maxVisible <= 0 {
		return 0, 0
	}

	scrolloff := min(2, maxVisible/2)
	start := 0
	if cursor > maxVisible-1-scrolloff {
		start = cursor - (maxVisible - 1 - scrolloff)
	}
	end := start + maxVisible
	if end > n {
		end = n
		start = max(0, end-maxVisible)
	}
	return start, end
}

func renderItemList(m Model, width int, theme StyleTheme) string {
	st := m.state
	start, end := visibleWindow(m.cursor, len(st.Items), m.maxVisibleItems())

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, renderItemRow(st.Items[i], i, i == m.cursor, width, theme)...)
	}

	// The end marker shows once the last item is on screen
	if end == len(st.Items) && st.Exhausted {
		marker := "── end of feed "
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.Gray).
			Render(marker+strings.Repeat("─", max(0, width-lipgloss.Width(marker)))))
	}

	return strings.Join(lines, "\n")
}

// renderItemRow formats one feed row: title line and metadata line
func renderItemRow(item media.Item, idx int, selected bool, width int, theme StyleTheme) []string {
	// Thumbnail marker - filled when the store has a poster image
	marker := "▢"
	if item.HasThumbnail() {
		marker = "▣"
	}
	thumb := theme.ThumbnailStyle(item.HasThumbnail()).Render(marker)

	// Selection indicator
	selector := "  "
	if selected {
		selector = theme.SelectedStyle().Render("▸ ")
	}

	line1 := fmt.Sprintf("%s%s %2d. %s",
		selector,
		thumb,
		idx+1,
		theme.TitleStyle(selected).Render(truncate(item.Title, width-12)),
	)

	metaStyle := theme.MetaStyle()
	var metaParts []string
	if item.SizeBytes > 0 {
		metaParts = append(metaParts, formatSize(item.SizeBytes))
	}
	if !item.CreatedAt.IsZero() {
		metaParts = append(metaParts, formatTime(time.Since(item.CreatedAt))+" ago")
	}
	metaParts = append(metaParts, truncate(item.ID, max(width/2, 10)))

	line2 := "        " + metaStyle.Render(strings.Join(metaParts, " | "))

	return []string{line1, line2}
}

func renderLoading(m Model, theme StyleTheme) string {
	return theme.LoadingStyle().Render(m.spinner.View() + " Loading videos...")
}

func renderError(m Model, theme StyleTheme) string {
	msg := m.recovery.Message()
	if msg == "" {
		msg = "Something went wrong."
	}

	boxWidth := min(max(m.width-6, 20), 72)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.VibrantPurple).
		Padding(0, 1).
		Width(boxWidth)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.ErrorStyle().Render("✗ Feed unavailable"),
		"",
		wrapText(msg, boxWidth-4),
		"",
		theme.MutedStyle().Render("Press r to retry"),
	)
	return box.Render(content)
}

func renderEmptyState(theme StyleTheme) string {
	return lipgloss.NewStyle().
		Foreground(theme.Gray).
		Italic(true).
		Render("No videos yet. Run 'reelfeed index <dir>' to add some.")
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatTime(d time.Duration) string {
	if d.Hours() < 1 {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d.Hours() < 24 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// formatSize renders a byte count the way the catalog listing does
func formatSize(bytes int64) string {
	mb := float64(bytes) / (1024 * 1024)
	if mb < 10 {
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.0f MB", mb)
}
