package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/collection"
)

func TestPaginateClampsPages(t *testing.T) {
	items := make([]int, 120)
	for i := range items {
		items[i] = i
	}

	page, meta := collection.Paginate(items, 99, 50)
	assert.Equal(t, 3, meta.Page)
	assert.Equal(t, 3, meta.NumPages)
	assert.Equal(t, 120, meta.Total)
	assert.Len(t, page, 20)
	assert.Equal(t, 100, page[0])

	page, meta = collection.Paginate(items, 0, 50)
	assert.Equal(t, 1, meta.Page)
	assert.Len(t, page, 50)
}

func TestPaginateEmpty(t *testing.T) {
	page, meta := collection.Paginate([]string{}, 4, 15)
	assert.Empty(t, page)
	assert.NotNil(t, page)
	assert.Equal(t, collection.PageMeta{Page: 1, PageSize: 15, Total: 0, NumPages: 1}, meta)
}

func TestSortedDistinctSkipsEmpty(t *testing.T) {
	got := collection.SortedDistinct([]string{"Red", "", "Blue", "Red", "Green"})
	assert.Equal(t, []string{"Blue", "Green", "Red"}, got)
}

func TestUniqueByKeepsFirst(t *testing.T) {
	type row struct {
		ID   int
		Name string
	}
	got := collection.UniqueBy([]row{{1, "a"}, {2, "b"}, {1, "c"}}, func(r row) int { return r.ID })
	assert.Equal(t, []row{{1, "a"}, {2, "b"}}, got)
}

func TestSortStableByKeepsTies(t *testing.T) {
	type row struct {
		Key   int
		Order string
	}
	rows := []row{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}}
	collection.SortStableBy(rows, func(a, b row) bool { return a.Key < b.Key })
	assert.Equal(t, []row{{1, "b"}, {1, "d"}, {2, "a"}, {2, "c"}}, rows)
}

func TestGroupByAndKeyBy(t *testing.T) {
	words := []string{"apple", "avocado", "banana"}
	grouped := collection.GroupBy(words, func(s string) byte { return s[0] })
	assert.Equal(t, []string{"apple", "avocado"}, grouped['a'])

	keyed := collection.KeyBy(words, func(s string) int { return len(s) })
	assert.Equal(t, "banana", keyed[6])
	assert.Equal(t, "avocado", keyed[7])
}
