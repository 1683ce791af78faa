// Package service builds the feed components from configuration.
package service

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/nickpending/reelfeed/internal/api"
	"github.com/nickpending/reelfeed/internal/catalog"
	"github.com/nickpending/reelfeed/internal/config"
	"github.com/nickpending/reelfeed/internal/db"
	"github.com/nickpending/reelfeed/internal/feed"
	"github.com/nickpending/reelfeed/internal/playback"
	"github.com/nickpending/reelfeed/internal/shuffle"
	"github.com/nickpending/reelfeed/internal/suggest"
)

// Services is everything the TUI and CLI need, wired from one config
type Services struct {
	Config     *config.Config
	Store      catalog.Store
	Client     *catalog.Client
	Controller *feed.Controller
	Trigger    *feed.Trigger
	Recovery   *feed.Recovery
	Session    *playback.Session
	Launcher   *playback.Launcher

	closer io.Closer
}

// NewStore opens the content store selected by [store].backend.
// The returned closer is nil for stores that hold no resources.
func NewStore(cfg *config.Config, logger zerolog.Logger) (catalog.Store, io.Closer, error) {
	if cfg.IsRemote() {
		client, err := api.NewClient(api.Options{
			BaseURL: cfg.Store.URL,
			APIKey:  cfg.Store.Key,
			Timeout: cfg.Timeout(),
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create remote store: %w", err)
		}
		return client, nil, nil
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, nil, err
	}
	store, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return store, store, nil
}

// NewClient creates a catalog client for cfg over store
func NewClient(cfg *config.Config, store catalog.Store, logger zerolog.Logger) *catalog.Client {
	return catalog.NewClient(store, catalog.Options{
		Folder:           cfg.Store.Folder,
		Concurrency:      cfg.Feed.Concurrency,
		TitlePlaceholder: cfg.Feed.TitlePlaceholder,
		Logger:           logger,
	})
}

// New wires the store, catalog client, feed and playback components
func New(cfg *config.Config, logger zerolog.Logger) (*Services, error) {
	store, closer, err := NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	client := NewClient(cfg, store, logger)
	feedShuffler, suggestShuffler := newShufflers(cfg.Feed.Seed)

	ctrl := feed.NewController(client, feedShuffler, cfg.Feed.PageSize, logger)

	return &Services{
		Config:     cfg,
		Store:      store,
		Client:     client,
		Controller: ctrl,
		Trigger:    feed.NewTrigger(ctrl),
		Recovery:   feed.NewRecovery(ctrl),
		Session:    playback.NewSession(suggest.NewEngine(suggestShuffler)),
		Launcher:   playback.NewLauncher(cfg.Player.Command),
		closer:     closer,
	}, nil
}

// Close tears down the feed and releases the store
func (s *Services) Close() error {
	s.Trigger.Detach()
	s.Controller.Close()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// newShufflers returns independent generators for the feed and the
// suggestion list. A zero seed means unseeded.
func newShufflers(seed uint64) (*shuffle.Shuffler, *shuffle.Shuffler) {
	if seed == 0 {
		return shuffle.NewUnseeded(), shuffle.NewUnseeded()
	}
	return shuffle.NewSeeded(seed), shuffle.NewSeeded(seed + 1)
}
