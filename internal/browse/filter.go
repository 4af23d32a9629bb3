// Package browse filters the item list shown on the browse page.
package browse

import (
	"strings"

	"github.com/erazemk/lostfound/internal/model"
)

// Filter values that mean "no restriction".
const (
	AllCategories = "All"
	AllStatuses   = "all"
)

// Filter narrows the item list. Zero values match everything.
type Filter struct {
	Search   string
	Category string
	Status   string
}

// Active reports whether f restricts anything.
func (f Filter) Active() bool {
	return f.Search != "" || !anyCategory(f.Category) || !anyStatus(f.Status)
}

func anyCategory(c string) bool { return c == "" || c == AllCategories }
func anyStatus(s string) bool   { return s == "" || s == AllStatuses }

// Match reports whether item passes f.
func (f Filter) Match(item *model.Item) bool {
	if q := strings.ToLower(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(item.Title), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}
	if !anyCategory(f.Category) && item.Category != f.Category {
		return false
	}
	if !anyStatus(f.Status) && string(item.Status) != f.Status {
		return false
	}
	return true
}

// Apply returns the items that pass f, in their original order.
func Apply(items []model.Item, f Filter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for i := range items {
		if f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// Totals counts items by status.
type Totals struct {
	Lost  int
	Found int
}

// Count returns the lost and found totals of items.
func Count(items []model.Item) Totals {
	var t Totals
	for _, item := range items {
		switch item.Status {
		case model.StatusLost:
			t.Lost++
		case model.StatusFound:
			t.Found++
		}
	}
	return t
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryCounts counts items per category, in the order of model.Categories.
// Every category is listed, including empty ones.
func CategoryCounts(items []model.Item) []CategoryCount {
	counts := make(map[string]int, len(model.Categories))
	for _, item := range items {
		counts[item.Category]++
	}
	out := make([]CategoryCount, len(model.Categories))
	for i, c := range model.Categories {
		out[i] = CategoryCount{Category: c, Count: counts[c]}
	}
	return out
}

// Recent returns the first n items, which are the newest when items come
// from the store.
func Recent(items []model.Item, n int) []model.Item {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
