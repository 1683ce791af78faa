package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/reelfeed/internal/commands"
)

// CommandMode represents the neovim-style command mode
type CommandMode struct {
	active         bool
	input          textinput.Model
	history        []string
	historyIdx     int
	suggestions    []string
	suggestionIdx  int    // Next suggestion to show on tab
	completionBase string // Text the suggestions were computed from
	registry       *commands.Registry
	width          int
	error          string
}

// clearErrorMsg is sent to clear command error after delay
type clearErrorMsg struct{}

// NewCommandMode creates a new command mode instance
func NewCommandMode() CommandMode {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.CharLimit = 256
	ti.Width = 50
	ti.Prompt = ":"

	return CommandMode{
		active:      false,
		input:       ti,
		history:     make([]string, 0, 100),
		historyIdx:  -1,
		suggestions: []string{},
		registry:    commands.NewRegistry(),
		width:       80,
	}
}

// SetWidth updates the width of the command mode display
func (c *CommandMode) SetWidth(width int) {
	c.width = width
	c.input.Width = width - 4 // Leave some padding
}

// Show activates command mode with an empty line
func (c *CommandMode) Show() {
	c.active = true
	c.input.Focus()
	c.reset()
}

// Hide deactivates command mode
func (c *CommandMode) Hide() {
	c.active = false
	c.input.Blur()
	c.reset()
	c.historyIdx = -1
}

func (c *CommandMode) reset() {
	c.input.SetValue("")
	c.historyIdx = len(c.history)
	c.error = ""
	c.resetCompletion()
}

func (c *CommandMode) resetCompletion() {
	c.suggestions = nil
	c.suggestionIdx = 0
	c.completionBase = ""
}

// IsActive returns whether command mode is currently active
func (c CommandMode) IsActive() bool {
	return c.active
}

// SetError shows err on the command line until a key is pressed or the
// returned tick fires
func (c *CommandMode) SetError(err string) tea.Cmd {
	c.error = err
	c.active = true
	c.input.Blur()

	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// Update handles input events for command mode
func (c *CommandMode) Update(msg tea.Msg) (CommandMode, tea.Cmd) {
	if !c.active {
		return *c, nil
	}

	switch msg := msg.(type) {
	case clearErrorMsg:
		c.Hide()
		return *c, nil

	case tea.KeyMsg:
		// Any key dismisses an error
		if c.error != "" {
			c.Hide()
			return *c, nil
		}

		switch msg.Type {
		case tea.KeyEscape, tea.KeyCtrlC:
			c.Hide()
			return *c, nil
		case tea.KeyEnter:
			return *c, c.execute()
		case tea.KeyUp:
			c.historyPrev()
			return *c, nil
		case tea.KeyDown:
			c.historyNext()
			return *c, nil
		case tea.KeyTab:
			c.cycleCompletion()
			return *c, nil
		case tea.KeyBackspace:
			if c.input.Value() == "" {
				c.Hide()
				return *c, nil
			}
		}
	}

	var cmd tea.Cmd
	before := c.input.Value()
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.resetCompletion()
	}
	return *c, cmd
}

// execute runs the typed line through the registry and closes command mode
func (c *CommandMode) execute() tea.Cmd {
	line := strings.TrimSpace(c.input.Value())
	c.Hide()
	if line == "" {
		return nil
	}

	c.addToHistory(line)
	parts := parseCommandWithQuotes(line)
	if len(parts) == 0 {
		return nil
	}
	return c.registry.Execute(parts[0], parts[1:])
}

func (c *CommandMode) historyPrev() {
	if c.historyIdx > 0 {
		c.historyIdx--
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	}
}

func (c *CommandMode) historyNext() {
	switch {
	case c.historyIdx < len(c.history)-1:
		c.historyIdx++
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	case c.historyIdx == len(c.history)-1:
		c.historyIdx = len(c.history)
		c.input.SetValue("")
	}
}

// cycleCompletion fills in the next completion for the typed prefix.
// Repeated tabs walk the same list; typing starts a new one.
func (c *CommandMode) cycleCompletion() {
	current := c.input.Value()
	if current == "" {
		return
	}

	cycling := false
	if n := len(c.suggestions); n > 0 {
		prev := (c.suggestionIdx + n - 1) % n
		cycling = current == c.suggestions[prev]
	}
	if !cycling && (len(c.suggestions) == 0 || current != c.completionBase) {
		c.completionBase = current
		c.suggestions = c.Complete(current)
		c.suggestionIdx = 0
		if len(c.suggestions) == 0 {
			return
		}
	}

	c.input.SetValue(c.suggestions[c.suggestionIdx])
	c.input.CursorEnd()
	c.suggestionIdx = (c.suggestionIdx + 1) % len(c.suggestions)
}

// View renders the command line, or the last command error
func (c CommandMode) View(theme StyleTheme) string {
	if !c.active {
		return ""
	}

	if c.error != "" {
		return lipgloss.NewStyle().
			Foreground(theme.VibrantPurple).
			Width(c.width).
			Padding(0, 1).
			Render(c.error)
	}

	content := c.input.View()

	if len(c.suggestions) > 1 {
		// suggestionIdx points at the next suggestion
		currentPos := c.suggestionIdx
		if currentPos == 0 {
			currentPos = len(c.suggestions)
		}
		content += fmt.Sprintf(" [%d/%d]", currentPos, len(c.suggestions))
	}

	return lipgloss.NewStyle().
		Foreground(theme.Cyan).
		Width(c.width).
		Padding(0, 1).
		Render(content)
}

// Complete returns command completions for the given prefix
func (c *CommandMode) Complete(prefix string) []string {
	if c.registry == nil {
		return nil
	}

	// yank takes a target argument
	if strings.HasPrefix(strings.ToLower(prefix), "yank ") {
		argPrefix := strings.ToLower(strings.TrimSpace(prefix[5:]))
		var matches []string
		for _, target := range commands.YankTargets {
			if strings.HasPrefix(target, argPrefix) {
				matches = append(matches, "yank "+target)
			}
		}
		return matches
	}

	var matches []string
	lower := strings.ToLower(prefix)
	for _, name := range c.registry.GetCommands() {
		if strings.HasPrefix(name, lower) {
			matches = append(matches, name)
		}
	}
	return matches
}

// addToHistory appends line, skipping repeats and keeping the last 100
func (c *CommandMode) addToHistory(line string) {
	if len(c.history) > 0 && c.history[len(c.history)-1] == line {
		return
	}
	if len(c.history) >= 100 {
		c.history = c.history[1:]
	}
	c.history = append(c.history, line)
}

// parseCommandWithQuotes splits a command line on spaces. Double quotes
// group words and a backslash escapes the next character.
func parseCommandWithQuotes(line string) []string {
	var (
		args     []string
		current  strings.Builder
		inQuotes bool
		escaped  bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
