// Package playback holds the state of the playback view: the active item,
// its suggestion list and the player launch.
package playback

import (
	"sync"

	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/suggest"
)

// Session is the playback view's state. Entering with a selection computes
// suggestions; selecting a suggestion re-enters with it as the active item.
type Session struct {
	engine *suggest.Engine

	mu          sync.Mutex
	selection   *media.Selection
	suggestions []media.Item
	loading     bool
}

// NewSession creates an empty session
func NewSession(engine *suggest.Engine) *Session {
	return &Session{engine: engine}
}

// Enter shows sel. It returns media.ErrNavigationStateMissing when there
// is no selection; the caller must go back to the feed.
func (s *Session) Enter(sel *media.Selection) error {
	if !sel.Valid() {
		return media.ErrNavigationStateMissing
	}

	suggestions := s.engine.Suggest(sel.Catalog, sel.Active)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
	s.suggestions = suggestions
	s.loading = true
	return nil
}

// Select makes item the active item over the same catalog. The previous
// active item becomes a suggestion candidate again.
func (s *Session) Select(item media.Item) (*media.Selection, error) {
	s.mu.Lock()
	current := s.selection
	s.mu.Unlock()

	if current == nil {
		return nil, media.ErrNavigationStateMissing
	}

	next := &media.Selection{Active: item, Catalog: current.Catalog}
	if err := s.Enter(next); err != nil {
		return nil, err
	}
	return next, nil
}

// MarkReady clears the loading flag once the player has started
func (s *Session) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Leave clears the session when the view is closed
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
	s.suggestions = nil
	s.loading = false
}

// Active returns the active item
func (s *Session) Active() (media.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return media.Item{}, false
	}
	return s.selection.Active, true
}

// Suggestions returns the current suggestion list
func (s *Session) Suggestions() []media.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]media.Item, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Loading reports whether the player for the active item has not started yet
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
