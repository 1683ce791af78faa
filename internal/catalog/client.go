// Package catalog fetches the media catalog from a content store.
//
// A fetch lists the configured folder, then resolves the playback URL and
// metadata of every entry concurrently. The result is all-or-nothing: the
// first resolution failure cancels the rest and no partial catalog is
// returned.
package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nickpending/reelfeed/internal/media"
)

// Ref is a raw entry returned by a folder listing
type Ref struct {
	Path string // Full object reference, stable across sessions
	Name string // Last path element
}

// Metadata is the descriptive data a store keeps per object
type Metadata struct {
	Title        string
	ThumbnailURL string
	SizeBytes    int64
	CreatedAt    time.Time
}

// Store is a content store that can list a folder and resolve its entries
type Store interface {
	ListFolder(ctx context.Context, folder string) ([]Ref, error)
	ResolvePlaybackURL(ctx context.Context, ref Ref) (string, error)
	ResolveMetadata(ctx context.Context, ref Ref) (Metadata, error)
}

// Options configures a Client
type Options struct {
	Folder           string
	Concurrency      int    // Upper bound on in-flight resolutions, <= 0 means unbounded
	TitlePlaceholder string // Used when metadata carries no title
	Logger           zerolog.Logger
}

// Client fetches catalogs from a Store
type Client struct {
	store Store
	opts  Options
	log   zerolog.Logger
}

// NewClient creates a catalog client over store
func NewClient(store Store, opts Options) *Client {
	return &Client{
		store: store,
		opts:  opts,
		log:   opts.Logger.With().Str("component", "catalog").Str("folder", opts.Folder).Logger(),
	}
}

// Folder returns the folder this client lists
func (c *Client) Folder() string {
	return c.opts.Folder
}

// FetchCatalog lists the folder and resolves every entry.
// Output order matches listing order. Every failure is a *media.FetchError.
func (c *Client) FetchCatalog(ctx context.Context) (media.Catalog, error) {
	start := time.Now()
	c.log.Debug().Msg("fetching catalog")

	refs, err := c.store.ListFolder(ctx, c.opts.Folder)
	if err != nil {
		c.log.Error().Err(err).Msg("folder listing failed")
		return nil, &media.FetchError{Op: "list", Err: err}
	}

	items := make(media.Catalog, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if c.opts.Concurrency > 0 {
		g.SetLimit(c.opts.Concurrency)
	}

	for i, ref := range refs {
		g.Go(func() error {
			item, err := c.resolve(gctx, ref)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.log.Error().Err(err).Int("entries", len(refs)).Msg("catalog fetch failed")
		return nil, err
	}

	c.log.Info().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("catalog fetched")

	return items, nil
}

// resolve fetches the playback URL and metadata of one entry in parallel
func (c *Client) resolve(ctx context.Context, ref Ref) (media.Item, error) {
	var (
		url  string
		meta Metadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := c.store.ResolvePlaybackURL(gctx, ref)
		if err != nil {
			return &media.FetchError{Op: "url", Ref: ref.Path, Err: err}
		}
		url = u
		return nil
	})
	g.Go(func() error {
		m, err := c.store.ResolveMetadata(gctx, ref)
		if err != nil {
			return &media.FetchError{Op: "metadata", Ref: ref.Path, Err: err}
		}
		meta = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return media.Item{}, err
	}

	item := media.NewItem(ref.Path, url, meta.Title, meta.ThumbnailURL, c.opts.TitlePlaceholder)
	item.SizeBytes = meta.SizeBytes
	item.CreatedAt = meta.CreatedAt
	return item, nil
}
