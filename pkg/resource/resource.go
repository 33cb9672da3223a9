// Package resource shapes models into the JSON maps the API returns.
//
// A transformer is a plain function from a model to a Map:
//
//	func ProductCard(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name}
//	}
//
//	cx.Success(resource.Collection(products, ProductCard))
package resource

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/pkg/collection"
)

// Map is the output of a transformer.
type Map = map[string]any


// Collection applies fn to every item. The result is never nil, so an
// empty slice encodes as [] rather than null.
func Collection[T any](items []T, fn func(T) Map) []Map {
	out := make([]Map, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

// Paginated wraps a transformed page with its metadata.
func Paginated[T any](items []T, meta collection.PageMeta, fn func(T) Map) Map {
	return Map{
		"items":      Collection(items, fn),
		"pagination": meta,
	}
}

// Money renders an amount as a JSON number with two decimals of precision.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// NullMoney renders a nullable amount, nil when unset.
func NullMoney(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := Money(d.Decimal)
	return &v
}
