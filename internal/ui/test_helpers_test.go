package ui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nickpending/reelfeed/internal/feed"
	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/playback"
	"github.com/nickpending/reelfeed/internal/shuffle"
	"github.com/nickpending/reelfeed/internal/suggest"
)

// fakeFetcher serves a fixed catalog or a fixed error. Commands run
// synchronously in these tests, so no locking is needed.
type fakeFetcher struct {
	catalog media.Catalog
	err     error
	calls   int
}

func (f *fakeFetcher) FetchCatalog(ctx context.Context) (media.Catalog, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

// stubPlayer records launched URLs instead of starting a process
type stubPlayer struct {
	launched []string
	err      error
}

func (p *stubPlayer) Launch(url string) error {
	p.launched = append(p.launched, url)
	return p.err
}

func (p *stubPlayer) Player() string { return "stub" }

func makeCatalog(n int) media.Catalog {
	cat := make(media.Catalog, n)
	for i := range cat {
		id := fmt.Sprintf("videos/clip-%02d.mp4", i)
		cat[i] = media.Item{
			ID:          id,
			PlaybackURL: "https://cdn.example.com/" + id,
			Title:       fmt.Sprintf("Clip %02d", i),
			SizeBytes:   int64(i+1) * 1024 * 1024,
			CreatedAt:   time.Now().Add(-time.Duration(i) * time.Hour),
		}
	}
	return cat
}

// newTestModel builds a model over fetcher sized to width x height
func newTestModel(t *testing.T, fetcher *fakeFetcher, width, height int) (Model, *stubPlayer) {
	t.Helper()

	ctrl := feed.NewController(fetcher, shuffle.NewSeeded(1), feed.DefaultPageSize, zerolog.Nop())
	player := &stubPlayer{}

	m := NewModel(Deps{
		Controller: ctrl,
		Trigger:    feed.NewTrigger(ctrl),
		Recovery:   feed.NewRecovery(ctrl),
		Session:    playback.NewSession(suggest.NewEngine(shuffle.NewSeeded(2))),
		Player:     player,
		Logger:     zerolog.Nop(),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	return m, player
}

// update runs one message through the model
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model, cmd
}

// firstOf runs cmd and, for a batch, returns the first command's message.
// Batches put the real work first and the spinner tick after it.
func firstOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		if len(batch) == 0 || batch[0] == nil {
			t.Fatal("empty batch")
		}
		return batch[0]()
	}
	return msg
}

// loaded runs Init and applies the fetch result
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, firstOf(t, m.Init()))
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
