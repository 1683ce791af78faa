package playback

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher starts an external media player for a playback URL
type Launcher struct {
	command  []string // Configured player command, split on spaces
	goos     string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// NewLauncher creates a launcher. An empty command autodetects mpv and
// falls back to the OS opener.
func NewLauncher(command string) *Launcher {
	return &Launcher{
		command:  strings.Fields(command),
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Launch starts the player without waiting for it to exit
func (l *Launcher) Launch(url string) error {
	if url == "" {
		return fmt.Errorf("cannot play empty URL")
	}

	name, args, err := l.resolve()
	if err != nil {
		return err
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, args...)
	argv = append(argv, url)

	if err := l.start(name, argv...); err != nil {
		return fmt.Errorf("failed to start player %s: %w", name, err)
	}
	return nil
}

// Player returns the command Launch would run
func (l *Launcher) Player() string {
	name, args, err := l.resolve()
	if err != nil {
		return ""
	}
	return strings.Join(append([]string{name}, args...), " ")
}

func (l *Launcher) resolve() (string, []string, error) {
	if len(l.command) > 0 {
		return l.command[0], l.command[1:], nil
	}

	if _, err := l.lookPath("mpv"); err == nil {
		return "mpv", []string{"--really-quiet"}, nil
	}

	switch l.goos {
	case "darwin":
		return "open", nil, nil
	case "linux":
		return "xdg-open", nil, nil
	case "windows":
		// cmd /c start would split signed URLs at '&'
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", l.goos)
	}
}

// startDetached uses Start() instead of Run() so the TUI is not blocked
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child so it does not linger as a zombie
	go func() { _ = cmd.Wait() }()
	return nil
}
