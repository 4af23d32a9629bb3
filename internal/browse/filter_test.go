package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erazemk/lostfound/internal/model"
)

func titles(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func books() []model.Item {
	return []model.Item{
		{ID: 2, Status: model.StatusLost, Category: "Books", Title: "Calc"},
		{ID: 1, Status: model.StatusFound, Category: "Books", Title: "Physics"},
	}
}

func TestApplyStatusFilter(t *testing.T) {
	got := Apply(books(), Filter{Status: "lost"})
	assert.Equal(t, []string{"Calc"}, titles(got))
}

func TestApplyCategoryAndSearchCaseInsensitive(t *testing.T) {
	got := Apply(books(), Filter{Category: "Books", Search: "phys"})
	assert.Equal(t, []string{"Physics"}, titles(got))
}

func TestApplySearchMatchesDescription(t *testing.T) {
	items := []model.Item{
		{Title: "Phone", Description: "Blue CASE, cracked", Category: "Electronics", Status: model.StatusLost},
		{Title: "Wallet", Description: "brown leather", Category: "Other", Status: model.StatusLost},
	}
	assert.Equal(t, []string{"Phone"}, titles(Apply(items, Filter{Search: "case"})))
}

func TestApplyAllMeansUnfiltered(t *testing.T) {
	for _, f := range []Filter{{}, {Category: "All", Status: "all"}} {
		assert.Equal(t, []string{"Calc", "Physics"}, titles(Apply(books(), f)), "%+v", f)
		assert.False(t, f.Active())
	}
}

func TestApplySearchIsNotTrimmed(t *testing.T) {
	items := append(books(), model.Item{Title: "Red  Bag", Status: model.StatusLost})
	f := Filter{Search: "  "}
	assert.True(t, f.Active())
	assert.Equal(t, []string{"Red  Bag"}, titles(Apply(items, f)))
}

func TestApplyNoMatches(t *testing.T) {
	got := Apply(books(), Filter{Category: "Keys"})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCount(t *testing.T) {
	items := append(books(), model.Item{Status: model.StatusLost})
	assert.Equal(t, Totals{Lost: 2, Found: 1}, Count(items))
}

func TestCategoryCounts(t *testing.T) {
	counts := CategoryCounts(books())
	assert.Len(t, counts, len(model.Categories))
	for _, c := range counts {
		want := 0
		if c.Category == "Books" {
			want = 2
		}
		assert.Equal(t, want, c.Count, c.Category)
	}
}

func TestRecent(t *testing.T) {
	assert.Equal(t, []string{"Calc"}, titles(Recent(books(), 1)))
	assert.Len(t, Recent(books(), 3), 2)
}
