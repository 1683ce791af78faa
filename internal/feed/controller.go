// Package feed holds the paging state of the discovery feed.
//
// A Controller fetches the catalog once per session, shuffles it once and
// reveals it a page at a time. A Trigger calls LoadMore when the last
// visible item scrolls into view, and Recovery exposes the errored state
// with a manual retry.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/shuffle"
)

// DefaultPageSize is the number of items revealed per page
const DefaultPageSize = 4

var (
	// ErrStale is returned by a fetch completion that was superseded by a
	// later Init or Retry, or that finished after Close. Its result is dropped.
	ErrStale = errors.New("feed: stale fetch completion")
	// ErrClosed is returned when Init is called after Close
	ErrClosed = errors.New("feed: controller closed")
)

// Status is the controller's lifecycle state
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Errored
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Fetcher retrieves a full catalog. *catalog.Client satisfies it.
type Fetcher interface {
	FetchCatalog(ctx context.Context) (media.Catalog, error)
}

// State is a read-only snapshot of the feed
type State struct {
	Status    Status
	Items     []media.Item // Visible items, pages 0..Page of the shuffled catalog
	Page      int          // Index of the most recently appended page
	Exhausted bool
	Loading   bool
	Errored   bool
	Err       error
	Total     int    // Size of the current catalog
	SessionID string // Changes on every Init or Retry
}

// Last returns the last visible item
func (s State) Last() (media.Item, bool) {
	if len(s.Items) == 0 {
		return media.Item{}, false
	}
	return s.Items[len(s.Items)-1], true
}

// Controller owns the shuffled catalog and the page cursor
type Controller struct {
	fetcher  Fetcher
	shuffler *shuffle.Shuffler
	pageSize int
	log      zerolog.Logger

	mu        sync.Mutex
	status    Status
	catalog   media.Catalog
	shuffled  []media.Item
	visible   []media.Item
	pages     int // Pages appended so far
	exhausted bool
	loading   bool
	err       error
	gen       uint64
	cancel    context.CancelFunc
	closed    bool
	session   string
	started   time.Time
}

// NewController creates an idle controller. pageSize <= 0 uses DefaultPageSize.
func NewController(fetcher Fetcher, shuffler *shuffle.Shuffler, pageSize int, logger zerolog.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if shuffler == nil {
		shuffler = shuffle.NewUnseeded()
	}
	return &Controller{
		fetcher:  fetcher,
		shuffler: shuffler,
		pageSize: pageSize,
		log:      logger.With().Str("component", "feed").Logger(),
		status:   Idle,
	}
}

// PageSize returns the configured page size
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Init fetches the catalog, shuffles it and reveals the first page.
// It blocks until the fetch completes. On failure the controller is
// Errored and the fetch error is returned.
func (c *Controller) Init(ctx context.Context) error {
	run, err := c.Begin(ctx)
	if err != nil {
		return err
	}
	return run()
}

// Begin moves the controller to Loading and returns the function that
// performs the fetch. It lets a caller show the loading state before the
// fetch runs elsewhere. Any earlier fetch becomes stale.
func (c *Controller) Begin(ctx context.Context) (func() error, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	// Supersede the in-flight fetch, if any
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen

	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.status = Loading
	c.loading = true
	c.err = nil
	c.catalog = nil
	c.shuffled = nil
	c.visible = nil
	c.pages = 0
	c.exhausted = false
	c.session = uuid.NewString()
	c.started = time.Now()

	c.log.Debug().Str("session", c.session).Uint64("generation", gen).Msg("feed loading")

	return func() error {
		cat, err := c.fetcher.FetchCatalog(fetchCtx)
		return c.complete(gen, cat, err)
	}, nil
}

// complete applies a fetch result if gen is still current
func (c *Controller) complete(gen uint64, cat media.Catalog, fetchErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		c.log.Debug().Uint64("generation", gen).Uint64("current", c.gen).Msg("dropping stale fetch result")
		return ErrStale
	}

	c.cancel()
	c.cancel = nil
	c.loading = false

	if fetchErr != nil {
		c.status = Errored
		c.err = fetchErr
		c.log.Error().Err(fetchErr).Str("session", c.session).Msg("feed load failed")
		return fetchErr
	}

	c.catalog = cat
	c.shuffled = shuffle.Permute(c.shuffler, cat)
	c.appendPage()
	c.settle()

	c.log.Info().
		Str("session", c.session).
		Int("total", len(c.shuffled)).
		Int("visible", len(c.visible)).
		Bool("exhausted", c.exhausted).
		Dur("duration", time.Since(c.started)).
		Msg("feed ready")

	return nil
}

// LoadMore appends the next page. It is a no-op returning false while
// loading, once exhausted, or when the feed is not ready.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.loading || c.exhausted || c.status != Ready {
		return false
	}

	c.loading = true
	c.status = Loading
	c.appendPage()
	c.loading = false
	c.settle()

	c.log.Debug().
		Int("page", c.pages-1).
		Int("visible", len(c.visible)).
		Bool("exhausted", c.exhausted).
		Msg("page loaded")

	return true
}

// Retry clears the errored state and starts over with a fresh fetch and a
// fresh shuffle. Allowed from any state.
func (c *Controller) Retry(ctx context.Context) error {
	c.log.Info().Msg("feed retry requested")
	return c.Init(ctx)
}

// Close cancels any in-flight fetch. Later completions are dropped and
// Init returns ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
	c.log.Debug().Msg("feed closed")
}

// State returns a snapshot of the feed
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	page := 0
	if c.pages > 0 {
		page = c.pages - 1
	}

	items := make([]media.Item, len(c.visible))
	copy(items, c.visible)

	return State{
		Status:    c.status,
		Items:     items,
		Page:      page,
		Exhausted: c.exhausted,
		Loading:   c.loading,
		Errored:   c.status == Errored,
		Err:       c.err,
		Total:     len(c.shuffled),
		SessionID: c.session,
	}
}

// Catalog returns the unshuffled catalog of the current session
func (c *Controller) Catalog() media.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(media.Catalog, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// appendPage slices the next page off the shuffled catalog; c.mu must be held
func (c *Controller) appendPage() {
	start := c.pages * c.pageSize
	end := min(start+c.pageSize, len(c.shuffled))
	if start < end {
		c.visible = append(c.visible, c.shuffled[start:end]...)
	}
	c.pages++
	c.exhausted = len(c.shuffled) <= start+c.pageSize
}

// settle picks the resting status after a page; c.mu must be held
func (c *Controller) settle() {
	if c.exhausted {
		c.status = Exhausted
	} else {
		c.status = Ready
	}
}
