package store

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yctseng/itemlist/internal/model"
)

// SortKey selects the display order of a projection.
type SortKey string

const (
	// SortNewest orders by creation time, newest first. The default.
	SortNewest SortKey = "newest"
	// SortName orders by name, locale-aware ascending.
	SortName SortKey = "name"
	// SortQuantity orders by quantity, descending.
	SortQuantity SortKey = "quantity"
)

// Project derives the display view of a collection: records matching the
// query (case-insensitive substring of name, location, or category; empty
// query matches all), ordered per the sort key. Pure with respect to its
// inputs; the given slice is never mutated.
func Project(items []model.Item, query string, key SortKey) []model.Item {
	out := make([]model.Item, 0, len(items))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, item := range items {
		if q == "" || matches(item, q) {
			out = append(out, item)
		}
	}

	switch key {
	case SortName:
		// Item names are predominantly Traditional Chinese; plain byte
		// comparison would order them by code point, not reading order.
		c := collate.New(language.TraditionalChinese)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortQuantity:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Quantity > out[j].Quantity
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt > out[j].CreatedAt
		})
	}
	return out
}

func matches(item model.Item, q string) bool {
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Location), q) ||
		strings.Contains(strings.ToLower(item.Category), q)
}
