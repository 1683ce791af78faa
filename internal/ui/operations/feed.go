package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/reelfeed/internal/feed"
)

// Feed operation result messages
type FeedLoadedMsg struct {
	Retry bool  // True when the load was a manual retry
	Err   error // feed.ErrStale when superseded, nil on success
}

// LoadFeed moves the controller to Loading right away and returns a command
// that runs the fetch. Used for the initial load and for :refresh.
func LoadFeed(ctx context.Context, ctrl *feed.Controller) tea.Cmd {
	run, err := ctrl.Begin(ctx)
	if err != nil {
		return func() tea.Msg {
			return FeedLoadedMsg{Err: err}
		}
	}
	return func() tea.Msg {
		return FeedLoadedMsg{Err: run()}
	}
}

// RetryFeed retries a failed load. Returns nil when the feed is not errored.
func RetryFeed(ctx context.Context, rec *feed.Recovery) tea.Cmd {
	run, ok, err := rec.Begin(ctx)
	if err != nil {
		return func() tea.Msg {
			return FeedLoadedMsg{Retry: true, Err: err}
		}
	}
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return FeedLoadedMsg{Retry: true, Err: run()}
	}
}
