package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// StyleTheme is a named color scheme for the feed and player views
type StyleTheme struct {
	Name          string
	Cyan          lipgloss.Color // Primary accent, selection
	Purple        lipgloss.Color // Links and metadata
	VibrantPurple lipgloss.Color // Errors, thumbnail marker
	Green         lipgloss.Color // Ready/playing
	Red           lipgloss.Color // Strong emphasis
	Orange        lipgloss.Color // Loading indicators
	Gray          lipgloss.Color // Muted text
	DarkGray      lipgloss.Color // Borders and status bar
	White         lipgloss.Color // Main text

	// Header bar gradient
	GradientStart string
	GradientEnd   string
}

// CleanCyberTheme is the default theme
var CleanCyberTheme = StyleTheme{
	Name:          "clean_cyber",
	Cyan:          lipgloss.Color("#00D9FF"),
	Purple:        lipgloss.Color("#E6CCFF"),
	VibrantPurple: lipgloss.Color("#9F4DFF"),
	Green:         lipgloss.Color("#00FF88"),
	Red:           lipgloss.Color("#FF0066"),
	Orange:        lipgloss.Color("#FF8800"),
	Gray:          lipgloss.Color("#666666"),
	DarkGray:      lipgloss.Color("#333333"),
	White:         lipgloss.Color("#EEEEEE"),
	GradientStart: "#00D9FF",
	GradientEnd:   "#9F4DFF",
}

// MonokaiProTheme provides warm dark colors inspired by Monokai Pro
var MonokaiProTheme = StyleTheme{
	Name:          "monokai_pro",
	Cyan:          lipgloss.Color("#78DCE8"),
	Purple:        lipgloss.Color("#AB9DF2"),
	VibrantPurple: lipgloss.Color("#FF6188"),
	Green:         lipgloss.Color("#A9DC76"),
	Red:           lipgloss.Color("#FF6188"),
	Orange:        lipgloss.Color("#FC9867"),
	Gray:          lipgloss.Color("#727072"),
	DarkGray:      lipgloss.Color("#403E41"),
	White:         lipgloss.Color("#FCFCFA"),
	GradientStart: "#FC9867",
	GradientEnd:   "#FF6188",
}

// LightTheme uses softer tones that stay readable on dark terminals
var LightTheme = StyleTheme{
	Name:          "light",
	Cyan:          lipgloss.Color("#06B6D4"),
	Purple:        lipgloss.Color("#8B5CF6"),
	VibrantPurple: lipgloss.Color("#EC4899"),
	Green:         lipgloss.Color("#22C55E"),
	Red:           lipgloss.Color("#F43F5E"),
	Orange:        lipgloss.Color("#FB923C"),
	Gray:          lipgloss.Color("#64748B"),
	DarkGray:      lipgloss.Color("#475569"),
	White:         lipgloss.Color("#F1F5F9"),
	GradientStart: "#06B6D4",
	GradientEnd:   "#8B5CF6",
}

// AvailableThemes is the cycle order for :theme
var AvailableThemes = []StyleTheme{
	CleanCyberTheme,
	MonokaiProTheme,
	LightTheme,
}

// ThemeByName returns the named theme, falling back to CleanCyberTheme
func ThemeByName(name string) (StyleTheme, int) {
	for i, t := range AvailableThemes {
		if t.Name == name {
			return t, i
		}
	}
	return CleanCyberTheme, 0
}

func (t StyleTheme) BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.DarkGray)
}

func (t StyleTheme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.DarkGray).
		Foreground(t.Gray)
}

// ThumbnailStyle colors the row marker by whether the item has a poster
func (t StyleTheme) ThumbnailStyle(has bool) lipgloss.Style {
	if has {
		return lipgloss.NewStyle().Foreground(t.VibrantPurple)
	}
	return lipgloss.NewStyle().Foreground(t.Gray)
}

func (t StyleTheme) TitleStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Foreground(t.Cyan)
	}
	return lipgloss.NewStyle().Foreground(t.White)
}

func (t StyleTheme) MetaStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray)
}

func (t StyleTheme) LoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Orange).
		Bold(true)
}

func (t StyleTheme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Green)
}

func (t StyleTheme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray)
}

func (t StyleTheme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.VibrantPurple).
		Bold(true)
}

func (t StyleTheme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Cyan).
		Bold(true)
}

// ToGlamourStyle converts our theme to a glamour style config for markdown rendering
func (t StyleTheme) ToGlamourStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig

	// The info panel supplies its own padding
	style.Document.Margin = uintPtr(0)

	// Map our theme colors to glamour's markdown elements
	style.Document.StylePrimitive.Color = stringPtr(string(t.White))
	style.Heading.StylePrimitive.Color = stringPtr(string(t.Cyan))
	style.Heading.StylePrimitive.Bold = boolPtr(true)

	// Make H1 stand out more than H2
	style.H1.StylePrimitive.Color = stringPtr(string(t.Cyan))
	style.H1.StylePrimitive.Bold = boolPtr(true)
	style.H1.StylePrimitive.Prefix = ""
	style.H1.Prefix = "▸ " // Replace ## with arrow
	style.H1.Suffix = ""   // Remove any suffix
	style.H1.Format = ""   // Clear the ## format

	// H2 headers
	style.H2.StylePrimitive.Color = stringPtr(string(t.Cyan))
	style.H2.StylePrimitive.Bold = boolPtr(true)
	style.H2.Prefix = "▸ " // Replace ## with arrow
	style.H2.Suffix = ""
	style.H2.Format = ""

	// H3 headers
	style.H3.StylePrimitive.Color = stringPtr(string(t.Cyan))
	style.H3.Prefix = "▸ " // Replace ### with arrow
	style.H3.Suffix = ""
	style.H3.Format = ""

	// H4-H6 headers
	style.H4.Prefix = "▸ "
	style.H4.Suffix = ""
	style.H4.Format = ""
	style.H5.Prefix = "▸ "
	style.H5.Suffix = ""
	style.H5.Format = ""
	style.H6.Prefix = "▸ "
	style.H6.Suffix = ""
	style.H6.Format = ""

	style.Link.Color = stringPtr(string(t.Purple))
	style.LinkText.Color = stringPtr(string(t.Purple))
	style.Code.Color = stringPtr(string(t.Green))
	style.CodeBlock.StylePrimitive.Color = stringPtr(string(t.Green))
	style.Strong.Color = stringPtr(string(t.Cyan))

	// List styling - subtle indent, normal text color
	style.List.StyleBlock.Indent = uintPtr(1)                               // Small indent for lists
	style.List.StyleBlock.IndentToken = stringPtr("  ")                     // 2 spaces for wrapped lines
	style.List.StyleBlock.StylePrimitive.Color = stringPtr(string(t.White)) // Normal white text
	style.List.LevelIndent = 4                                              // Indent nested lists more

	// Item styling - simple and clean
	style.Item.BlockPrefix = "• "                 // Bullet prefix
	style.Item.Color = stringPtr(string(t.White)) // White text for items
	style.Item.Format = ""                        // Clear any default format

	// Enumeration (numbered lists) - normal color
	style.Enumeration.Color = stringPtr(string(t.White)) // White for numbered lists too

	// Status lines in the info panel are emphasized
	style.Emph.Color = stringPtr(string(t.Orange))
	style.Emph.Italic = boolPtr(true)

	return style
}

// Helper functions for creating pointers
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// RenderWithGradientBackground renders text with a gradient background
func RenderWithGradientBackground(text string, width int, startColor, endColor string) string {
	// Ensure text is exactly the width specified
	var paddedText string
	textRunes := []rune(text)
	if len(textRunes) < width {
		// Pad with spaces to reach full width
		paddedText = string(textRunes) + strings.Repeat(" ", width-len(textRunes))
	} else {
		// Truncate if too long
		paddedText = string(textRunes[:width])
	}

	// Split into characters for individual background colors
	runes := []rune(paddedText)
	var result strings.Builder

	for i, r := range runes {
		// Calculate position along gradient (0.0 to 1.0)
		position := float64(i) / float64(max(width-1, 1))

		// Interpolate background color at this position
		bgColor := InterpolateColor(startColor, endColor, position)

		// Apply gradient background with white/bright foreground for readability
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

// InterpolateColor interpolates between two hex colors at the given position
func InterpolateColor(startColor, endColor string, position float64) string {
	// Parse start color
	startR, startG, startB, err := parseHexColor(startColor)
	if err != nil {
		return startColor // Fallback to start color
	}

	// Parse end color
	endR, endG, endB, err := parseHexColor(endColor)
	if err != nil {
		return startColor // Fallback to start color
	}

	// Clamp position to valid range
	if position < 0 {
		position = 0
	}
	if position > 1 {
		position = 1
	}

	// Interpolate RGB values
	r := int(float64(startR) + (float64(endR-startR) * position))
	g := int(float64(startG) + (float64(endG-startG) * position))
	b := int(float64(startB) + (float64(endB-startB) * position))

	// Convert back to hex
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// parseHexColor parses a hex color string into RGB values
func parseHexColor(hexColor string) (int, int, int, error) {
	// Remove # prefix if present
	if strings.HasPrefix(hexColor, "#") {
		hexColor = hexColor[1:]
	}

	// Must be 6 characters for RGB
	if len(hexColor) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color format")
	}

	// Parse RGB components
	r, err := strconv.ParseInt(hexColor[0:2], 16, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid red component: %w", err)
	}

	g, err := strconv.ParseInt(hexColor[2:4], 16, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid green component: %w", err)
	}

	b, err := strconv.ParseInt(hexColor[4:6], 16, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid blue component: %w", err)
	}

	return int(r), int(g), int(b), nil
}
