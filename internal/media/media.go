package media

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTitle is used when the content store carries no title for an item
const DefaultTitle = "New Video"

// ErrNavigationStateMissing is returned when the playback view is entered
// without a selection. The view must redirect back instead of rendering.
var ErrNavigationStateMissing = errors.New("playback selection missing")

// Item represents a single media item in the catalog.
// ID is the store's object reference and is the identity key; PlaybackURL
// may be signed or ephemeral and is never used for equality.
type Item struct {
	ID           string    `json:"id"`
	PlaybackURL  string    `json:"playback_url"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"` // Empty when the store has no thumbnail
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// NewItem builds an Item, substituting placeholder for an empty title
func NewItem(id, playbackURL, title, thumbnailURL, placeholder string) Item {
	if title == "" {
		title = placeholder
	}
	if title == "" {
		title = DefaultTitle
	}
	return Item{
		ID:           id,
		PlaybackURL:  playbackURL,
		Title:        title,
		ThumbnailURL: thumbnailURL,
	}
}

// HasThumbnail reports whether the store supplied a thumbnail
func (i Item) HasThumbnail() bool {
	return i.ThumbnailURL != ""
}

// SizeMB returns the item size in megabytes
func (i Item) SizeMB() float64 {
	return float64(i.SizeBytes) / (1024 * 1024)
}

// Catalog is the full ordered result of one successful fetch.
// Treat it as a snapshot: callers never modify the elements.
type Catalog []Item

// Contains reports whether an item with the given ID is in the catalog
func (c Catalog) Contains(id string) bool {
	for _, item := range c {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Selection is handed from the feed to the playback view on navigation.
// It is built once per transition and not mutated afterwards.
type Selection struct {
	Active  Item
	Catalog Catalog
}

// Valid reports whether the selection names an active item
func (s *Selection) Valid() bool {
	return s != nil && s.Active.ID != ""
}

// FetchError wraps any content store failure: listing, permission,
// playback URL resolution or metadata read.
type FetchError struct {
	Op  string // "list", "url" or "metadata"
	Ref string // Object reference, empty for listing failures
	Err error
}

func (e *FetchError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fetch %s %q: %v", e.Op, e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is or wraps a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
