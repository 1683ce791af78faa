package commands

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandFunc is a function that executes a command
type CommandFunc func(args []string) tea.Cmd

// Registry holds all available commands
type Registry struct {
	commands map[string]CommandFunc
}

// NewRegistry creates a new command registry with built-in commands
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]CommandFunc),
	}

	// Register built-in commands (vim-style: full names only, completion handles prefixes)
	r.Register("quit", cmdQuit)
	r.Register("retry", cmdRetry)
	r.Register("refresh", cmdRefresh)
	r.Register("help", cmdHelp)

	// Playback commands
	r.Register("play", cmdPlay)
	r.Register("open", cmdOpen)
	r.Register("yank", cmdYank)
	r.Register("back", cmdBack)

	// Theme switching
	r.Register("theme", cmdTheme)

	return r
}

// Register adds a command to the registry
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute runs a command by name with arguments
func (r *Registry) Execute(name string, args []string) tea.Cmd {
	// First try exact match
	if fn, ok := r.commands[name]; ok {
		return fn(args)
	}

	// Then try prefix matching (vim-style)
	var matches []string
	var matchedFn CommandFunc
	lowerName := strings.ToLower(name)

	for cmdName, fn := range r.commands {
		if strings.HasPrefix(strings.ToLower(cmdName), lowerName) {
			matches = append(matches, cmdName)
			matchedFn = fn
		}
	}

	// If exactly one match, execute it
	if len(matches) == 1 {
		return matchedFn(args)
	}

	// If multiple matches, show ambiguous command error
	if len(matches) > 1 {
		sort.Strings(matches)
		return showError(fmt.Sprintf("Ambiguous command '%s': %s", name, strings.Join(matches, ", ")))
	}

	// No matches
	return showError(fmt.Sprintf("Unknown command: %s", name))
}

// GetCommands returns all registered command names, sorted
func (r *Registry) GetCommands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Built-in command implementations

// cmdQuit exits the application
func cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

// cmdRetry retries a failed feed load
func cmdRetry(args []string) tea.Cmd {
	return func() tea.Msg {
		return RetryMsg{}
	}
}

// cmdRefresh refetches and reshuffles the feed
func cmdRefresh(args []string) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// cmdHelp shows available commands
func cmdHelp(args []string) tea.Cmd {
	return func() tea.Msg {
		return HelpMsg{}
	}
}

// cmdPlay opens the playback view for the item under the cursor
func cmdPlay(args []string) tea.Cmd {
	return func() tea.Msg {
		return PlayMsg{}
	}
}

// cmdOpen launches the external player for the active item
func cmdOpen(args []string) tea.Cmd {
	return func() tea.Msg {
		return OpenMsg{}
	}
}

// YankTargets are the fields :yank can copy
var YankTargets = []string{"url", "title", "id"}

// cmdYank copies the active item's URL, title or ID to the clipboard
func cmdYank(args []string) tea.Cmd {
	return func() tea.Msg {
		target := "url" // default
		if len(args) > 0 {
			target = strings.ToLower(args[0])
		}
		if !slices.Contains(YankTargets, target) {
			return ErrorMsg{Message: fmt.Sprintf("yank: unknown target '%s' (available: %s)",
				args[0], strings.Join(YankTargets, ", "))}
		}
		return YankMsg{Target: target}
	}
}

// cmdBack leaves the playback view
func cmdBack(args []string) tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}

// cmdTheme cycles through available themes
func cmdTheme(args []string) tea.Cmd {
	return func() tea.Msg {
		return ThemeMsg{}
	}
}

// showError returns a command that shows an error message
func showError(msg string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Message: msg}
	}
}

// Message types for commands

// RetryMsg signals a manual retry of a failed feed load
type RetryMsg struct{}

// RefreshMsg signals that the feed should be fetched and shuffled again
type RefreshMsg struct{}

// ErrorMsg contains an error message to display
type ErrorMsg struct {
	Message string
}

// HelpMsg signals to show the help modal
type HelpMsg struct{}

// PlayMsg signals to open the playback view for the selected item
type PlayMsg struct{}

// OpenMsg signals to launch the external player
type OpenMsg struct{}

// YankMsg signals to copy part of the active item to the clipboard
type YankMsg struct {
	Target string // "url" (default), "title" or "id"
}

// BackMsg signals to return from the playback view to the feed
type BackMsg struct{}

// ThemeMsg signals to cycle to the next theme
type ThemeMsg struct{}
