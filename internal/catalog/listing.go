package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/nickpending/reelfeed/internal/media"
)

// SortOrder names an ordering for catalog listings
type SortOrder string

const (
	SortRecent   SortOrder = "recent"
	SortBiggest  SortOrder = "biggest"
	SortSmallest SortOrder = "smallest"
	SortTitle    SortOrder = "title"
)

// ParseSortOrder validates a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortRecent, SortBiggest, SortSmallest, SortTitle:
		return order, nil
	case "":
		return SortRecent, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want recent, biggest, smallest or title)", s)
	}
}

// Sorted returns a copy of items in the given order. Ties fall back to ID.
func Sorted(items media.Catalog, order SortOrder) media.Catalog {
	out := make(media.Catalog, len(items))
	copy(out, items)

	var less func(a, b media.Item) bool
	switch order {
	case SortBiggest:
		less = func(a, b media.Item) bool { return a.SizeBytes > b.SizeBytes }
	case SortSmallest:
		less = func(a, b media.Item) bool { return a.SizeBytes < b.SizeBytes }
	case SortTitle:
		less = func(a, b media.Item) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		less = func(a, b media.Item) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TotalSizeMB sums item sizes in megabytes
func TotalSizeMB(items media.Catalog) float64 {
	return lo.SumBy(items, func(item media.Item) float64 { return item.SizeMB() })
}
