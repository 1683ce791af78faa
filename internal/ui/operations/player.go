package operations

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/reelfeed/internal/media"
)

// Player starts an external player. *playback.Launcher satisfies it.
type Player interface {
	Launch(url string) error
	Player() string
}

// Player operation result messages
type PlayerLaunchedMsg struct {
	ID      string
	Player  string
	Success bool
	Error   error
}

// LaunchPlayer starts the external player for item
func LaunchPlayer(p Player, item media.Item) tea.Cmd {
	return func() tea.Msg {
		err := p.Launch(item.PlaybackURL)
		return PlayerLaunchedMsg{
			ID:      item.ID,
			Player:  p.Player(),
			Success: err == nil,
			Error:   err,
		}
	}
}
