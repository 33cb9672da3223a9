package resource_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

func TestCollectionIsNeverNull(t *testing.T) {
	out := resource.Collection([]int(nil), func(n int) resource.Map { return resource.Map{"n": n} })
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestPaginated(t *testing.T) {
	page := resource.Paginated([]string{"a", "b"}, collection.PageMeta{Page: 1, PageSize: 2, Total: 5, NumPages: 3},
		func(s string) resource.Map { return resource.Map{"v": s} })
	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"v":"a"},{"v":"b"}],"pagination":{"page":1,"page_size":2,"total_count":5,"num_pages":3}}`, string(raw))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, 12.35, resource.Money(decimal.RequireFromString("12.345")))
	assert.Nil(t, resource.NullMoney(decimal.NullDecimal{}))
	v := resource.NullMoney(decimal.NewNullDecimal(decimal.NewFromInt(3)))
	require.NotNil(t, v)
	assert.Equal(t, 3.0, *v)
}
