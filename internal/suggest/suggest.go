// Package suggest builds the "up next" list shown beside the player.
package suggest

import (
	"github.com/samber/lo"

	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/shuffle"
)

// Engine produces suggestion lists
type Engine struct {
	shuffler *shuffle.Shuffler
}

// NewEngine creates an Engine. A nil shuffler uses an unseeded one.
func NewEngine(shuffler *shuffle.Shuffler) *Engine {
	if shuffler == nil {
		shuffler = shuffle.NewUnseeded()
	}
	return &Engine{shuffler: shuffler}
}

// Suggest returns every catalog item except active, in random order.
// Items are compared by ID; two items sharing a playback URL are distinct.
func (e *Engine) Suggest(catalog media.Catalog, active media.Item) []media.Item {
	rest := lo.Filter(catalog, func(item media.Item, _ int) bool {
		return item.ID != active.ID
	})
	return shuffle.Permute(e.shuffler, rest)
}
