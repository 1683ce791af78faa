package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nickpending/reelfeed/internal/commands"
	"github.com/nickpending/reelfeed/internal/feed"
	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/playback"
	"github.com/nickpending/reelfeed/internal/ui/operations"
)

const (
	viewFeed   = "feed"
	viewPlayer = "player"
)

// Deps are the feed components the TUI drives
type Deps struct {
	Controller *feed.Controller
	Trigger    *feed.Trigger
	Recovery   *feed.Recovery
	Session    *playback.Session
	Player     operations.Player
	Logger     zerolog.Logger
	Theme      string // Theme name; unknown names use clean_cyber
}

// Model represents the application state for the TUI
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	controller *feed.Controller
	trigger    *feed.Trigger
	recovery   *feed.Recovery
	session    *playback.Session
	player     operations.Player
	log        zerolog.Logger

	state      feed.State // Last snapshot taken from the controller
	cursor     int        // Selected row in the feed
	playCursor int        // Selected row in the suggestion list
	view       string     // "feed" or "player"
	width      int
	height     int
	themeIdx   int

	viewport viewport.Model // Info panel in the player view
	spinner  spinner.Model
	// Status message for user feedback
	statusMessage string
	// Modal state
	helpModal   HelpModal
	commandMode CommandMode
}

// clearStatusMsg is sent to clear the status message after a delay
type clearStatusMsg struct{}

// NewModel creates a new Model instance
func NewModel(deps Deps) Model {
	ctx, cancel := context.WithCancel(context.Background())

	theme, themeIdx := ThemeByName(deps.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.SelectedStyle()

	return Model{
		ctx:         ctx,
		cancel:      cancel,
		controller:  deps.Controller,
		trigger:     deps.Trigger,
		recovery:    deps.Recovery,
		session:     deps.Session,
		player:      deps.Player,
		log:         deps.Logger.With().Str("component", "ui").Logger(),
		state:       deps.Controller.State(),
		view:        viewFeed,
		themeIdx:    themeIdx,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		helpModal:   NewHelpModal(),
		commandMode: NewCommandMode(),
	}
}

// Init starts the first catalog fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		operations.LoadFeed(m.ctx, m.controller),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// Handle window size for viewport and modals
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.helpModal.SetSize(msg.Width, msg.Height)
		m.commandMode.SetWidth(msg.Width)
		if m.view == viewPlayer {
			m.updatePlayerContent()
		} else {
			m.checkIntersection()
		}
	}

	// Handle command mode updates first (highest priority)
	if m.commandMode.IsActive() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			m.commandMode, cmd = m.commandMode.Update(msg)
			return m, cmd
		}
		if _, isClear := msg.(clearErrorMsg); isClear {
			m.commandMode, cmd = m.commandMode.Update(msg)
			return m, cmd
		}
	}

	// Handle help modal updates if it's visible
	if m.helpModal.IsVisible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			m.helpModal, cmd = m.helpModal.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		// Keep ticking only while there is something to wait for
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case operations.FeedLoadedMsg:
		if errors.Is(msg.Err, feed.ErrStale) {
			// Superseded by a newer load or torn down
			return m, nil
		}
		m.refreshState()
		if m.cursor >= len(m.state.Items) {
			m.cursor = 0
		}
		m.trigger.Sync()
		m.checkIntersection()
		if msg.Err == nil && msg.Retry {
			m.statusMessage = "✓ Feed reloaded"
			cmds = append(cmds, clearStatusAfterDelay(2*time.Second))
		}

	case operations.PlayerLaunchedMsg:
		if active, ok := m.session.Active(); ok && active.ID == msg.ID {
			if msg.Success {
				m.session.MarkReady()
				m.statusMessage = fmt.Sprintf("▶ Playing in %s", msg.Player)
			} else {
				m.statusMessage = fmt.Sprintf("✗ Could not start player: %v", msg.Error)
			}
			m.updatePlayerContent()
			cmds = append(cmds, clearStatusAfterDelay(3*time.Second))
		}

	case commands.ErrorMsg:
		// Show error in command line instead of status
		cmd := m.commandMode.SetError(msg.Message)
		return m, cmd

	case commands.HelpMsg:
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Show()
		return m, nil

	case commands.RetryMsg:
		return m, m.retry()

	case commands.RefreshMsg:
		return m, m.reload()

	case commands.PlayMsg:
		if m.view == viewFeed {
			return m, m.openSelected()
		}

	case commands.OpenMsg:
		return m, m.launchCurrent()

	case commands.YankMsg:
		cmds = append(cmds, m.yank(msg.Target))

	case commands.BackMsg:
		if m.view == viewPlayer {
			m.leavePlayer()
		}

	case commands.ThemeMsg:
		m.themeIdx = (m.themeIdx + 1) % len(AvailableThemes)
		m.spinner.Style = m.theme().SelectedStyle()
		m.statusMessage = "Theme: " + m.theme().Name
		if m.view == viewPlayer {
			m.updatePlayerContent()
		}
		cmds = append(cmds, clearStatusAfterDelay(2*time.Second))

	case clearStatusMsg:
		m.statusMessage = ""

	case tea.KeyMsg:
		if m.view == viewPlayer {
			return m.updatePlayerKeys(msg)
		}
		return m.updateFeedKeys(msg)
	}

	if len(cmds) > 0 {
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// updateFeedKeys handles keys in the feed view
func (m Model) updateFeedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case ":":
		// Activate command mode
		m.commandMode.Show()
		return m, nil

	case "q", "ctrl+c":
		m.teardown()
		return m, tea.Quit

	case "enter":
		return m, m.openSelected()

	case "r":
		return m, m.retry()

	case "y":
		return m, m.yank("url")

	case "?":
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Show()

	// Navigation
	case "j", "down":
		if m.cursor < len(m.state.Items)-1 {
			m.cursor++
		}
		m.checkIntersection()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.checkIntersection()
	case "g", "home":
		// Go to top (vim-style gg but simplified to single g)
		m.cursor = 0
		m.checkIntersection()
	case "G", "end":
		if len(m.state.Items) > 0 {
			m.cursor = len(m.state.Items) - 1
		}
		m.checkIntersection()
	}

	return m, nil
}

// updatePlayerKeys handles keys in the playback view
func (m Model) updatePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.session.Active(); !ok {
		// Nothing to show; go back to the feed
		m.leavePlayer()
		return m, nil
	}

	suggestions := m.session.Suggestions()

	switch msg.String() {
	case ":":
		m.commandMode.Show()
	case "ctrl+c":
		m.teardown()
		return m, tea.Quit
	case "esc", "q":
		m.leavePlayer()
	case "?":
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Show()
	case "j", "down":
		if m.playCursor < len(suggestions)-1 {
			m.playCursor++
		}
	case "k", "up":
		if m.playCursor > 0 {
			m.playCursor--
		}
	case "enter":
		if m.playCursor < len(suggestions) {
			return m, m.selectSuggestion(suggestions[m.playCursor])
		}
	case "o":
		return m, m.launchCurrent()
	case "y":
		return m, m.yank("url")
	case "pgdown", "pgup", "ctrl+d", "ctrl+u":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current model state
func (m Model) View() string {
	var baseView string
	if m.view == viewPlayer {
		baseView = RenderPlayer(m)
	} else {
		baseView = RenderFeed(m)
	}

	// Overlay help modal if visible (with dimming)
	if m.helpModal.IsVisible() {
		return m.helpModal.ViewWithOverlay(baseView, m.width, m.height, m.theme())
	}

	return baseView
}

// theme returns the active color theme
func (m Model) theme() StyleTheme {
	return AvailableThemes[m.themeIdx%len(AvailableThemes)]
}

// busy reports whether the feed is waiting on a fetch
func (m Model) busy() bool {
	st := m.controller.State()
	return st.Status == feed.Idle || st.Status == feed.Loading
}

// refreshState takes a new snapshot from the controller
func (m *Model) refreshState() {
	m.state = m.controller.State()
}

// checkIntersection reports the last visible item to the trigger whenever it
// is inside the rendered window, loading pages until the window is filled
// or the feed runs out.
func (m *Model) checkIntersection() {
	for {
		m.refreshState()
		last, ok := m.state.Last()
		if !ok {
			return
		}
		_, end := visibleWindow(m.cursor, len(m.state.Items), m.maxVisibleItems())
		if end < len(m.state.Items) {
			return
		}
		if !m.trigger.Intersect(last.ID) {
			return
		}
		m.log.Debug().Int("visible", len(m.controller.State().Items)).Msg("loaded next page")
	}
}

// retry starts a manual retry when the feed is errored
func (m *Model) retry() tea.Cmd {
	cmd := operations.RetryFeed(m.ctx, m.recovery)
	if cmd == nil {
		return nil
	}
	m.cursor = 0
	m.refreshState()
	return tea.Batch(cmd, m.spinner.Tick)
}

// reload refetches and reshuffles regardless of state
func (m *Model) reload() tea.Cmd {
	if m.view == viewPlayer {
		m.leavePlayer()
	}
	cmd := operations.LoadFeed(m.ctx, m.controller)
	m.cursor = 0
	m.refreshState()
	return tea.Batch(cmd, m.spinner.Tick)
}

// openSelected enters the playback view for the item under the cursor
func (m *Model) openSelected() tea.Cmd {
	if m.cursor >= len(m.state.Items) {
		return nil
	}
	sel := &media.Selection{
		Active:  m.state.Items[m.cursor],
		Catalog: m.controller.Catalog(),
	}
	return m.enterPlayer(sel)
}

// enterPlayer shows sel in the playback view and starts the player
func (m *Model) enterPlayer(sel *media.Selection) tea.Cmd {
	if err := m.session.Enter(sel); err != nil {
		m.log.Warn().Err(err).Msg("playback entered without a selection")
		m.leavePlayer()
		return nil
	}
	m.view = viewPlayer
	m.playCursor = 0
	m.updatePlayerContent()
	return operations.LaunchPlayer(m.player, sel.Active)
}

// selectSuggestion makes a suggestion the active item
func (m *Model) selectSuggestion(item media.Item) tea.Cmd {
	sel, err := m.session.Select(item)
	if err != nil {
		m.leavePlayer()
		return nil
	}
	m.playCursor = 0
	m.updatePlayerContent()
	return operations.LaunchPlayer(m.player, sel.Active)
}

// leavePlayer returns to the feed
func (m *Model) leavePlayer() {
	m.session.Leave()
	m.view = viewFeed
	m.playCursor = 0
	m.checkIntersection()
}

// currentItem is the active item in the player or the cursor item in the feed
func (m Model) currentItem() (media.Item, bool) {
	if m.view == viewPlayer {
		return m.session.Active()
	}
	if m.cursor < len(m.state.Items) {
		return m.state.Items[m.cursor], true
	}
	return media.Item{}, false
}

// launchCurrent relaunches the player for the current item
func (m *Model) launchCurrent() tea.Cmd {
	item, ok := m.currentItem()
	if !ok {
		return nil
	}
	if m.view == viewFeed {
		// Playing from the feed goes through the playback view
		return m.openSelected()
	}
	return operations.LaunchPlayer(m.player, item)
}

// yank copies part of the current item to the clipboard
func (m *Model) yank(target string) tea.Cmd {
	item, ok := m.currentItem()
	if !ok {
		return nil
	}

	text := item.PlaybackURL
	switch target {
	case "title":
		text = item.Title
	case "id":
		text = item.ID
	}

	if err := CopyToClipboard(text); err != nil {
		m.statusMessage = "✗ Failed to copy " + target
	} else {
		m.statusMessage = fmt.Sprintf("✓ %s copied to clipboard", target)
	}
	return clearStatusAfterDelay(2 * time.Second)
}

// teardown detaches the trigger and stops any in-flight fetch
func (m *Model) teardown() {
	m.trigger.Detach()
	m.controller.Close()
	m.cancel()
}

// clearStatusAfterDelay returns a command that clears the status message after a delay
func clearStatusAfterDelay(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
