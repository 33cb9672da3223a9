package services

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type View string

const (
	ViewShop     View = "shop"
	ViewSearch   View = "search"
	ViewCategory View = "category"
)

type SortKey string

const (
	SortNewest    SortKey = "-created_at"
	SortOldest    SortKey = "created_at"
	SortNameAsc   SortKey = "name"
	SortNameDesc  SortKey = "-name"
	SortPriceAsc  SortKey = "regular_price"
	SortPriceDesc SortKey = "-regular_price"
)

var sortAliases = map[string]SortKey{
	"-created_at":    SortNewest,
	"newest":         SortNewest,
	"default":        SortNewest,
	"created_at":     SortOldest,
	"oldest":         SortOldest,
	"name":           SortNameAsc,
	"name_asc":       SortNameAsc,
	"-name":          SortNameDesc,
	"name_desc":      SortNameDesc,
	"regular_price":  SortPriceAsc,
	"price_asc":      SortPriceAsc,
	"-regular_price": SortPriceDesc,
	"price_desc":     SortPriceDesc,
}

// SortOptions lists the canonical sort keys with their labels, in menu order.
var SortOptions = []struct {
	Key   SortKey
	Label string
}{
	{SortNewest, "Newest"},
	{SortOldest, "Oldest"},
	{SortNameAsc, "Name (A-Z)"},
	{SortNameDesc, "Name (Z-A)"},
	{SortPriceAsc, "Price (Low to High)"},
	{SortPriceDesc, "Price (High to Low)"},
}

// ParseSortKey maps a sort_by value to a SortKey. Unknown values mean newest.
func ParseSortKey(raw string) SortKey {
	if k, ok := sortAliases[strings.TrimSpace(raw)]; ok {
		return k
	}
	return SortNewest
}

// CatalogRequest is a parsed filter request. Nil price bounds mean "not
// supplied"; Page is the raw page number, resolved during pagination.
type CatalogRequest struct {
	View         View
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Search       string
	Colors       []string
	Sizes        []string
	Weights      []string
	Sort         SortKey
	Page         int
	PageSize     int
}

// ParseCatalogQuery reads the filter parameters permissively. Malformed
// values are dropped in favour of defaults and never reported.
func ParseCatalogQuery(q url.Values, view View, pageSize int) CatalogRequest {
	return CatalogRequest{
		View:         view,
		CategorySlug: strings.TrimSpace(q.Get("category")),
		MinPrice:     DecimalOrNil(q.Get("min_price")),
		MaxPrice:     DecimalOrNil(q.Get("max_price")),
		Search:       strings.TrimSpace(q.Get("search")),
		Colors:       nonEmpty(q["color"]),
		Sizes:        nonEmpty(q["size"]),
		Weights:      nonEmpty(q["weight"]),
		Sort:         ParseSortKey(q.Get("sort_by")),
		Page:         IntOr(q.Get("page"), 1),
		PageSize:     pageSize,
	}
}

// DecimalOrNil parses raw, returning nil when it is empty or not a number.
func DecimalOrNil(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// IntOr parses raw as an integer, returning def on failure.
func IntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

// UintOr parses raw as a positive id, returning def on failure.
func UintOr(raw string, def uint) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || n == 0 {
		return def
	}
	return uint(n)
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseWishlistCookie reads the wishlist_ids cookie. It accepts a JSON array
// of strings or numbers, or a comma separated list, and returns ids as
// strings. Anything unreadable yields an empty list.
func ParseWishlistCookie(raw string) []string {
	raw = strings.TrimSpace(raw)
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	out := []string{}
	if raw == "" {
		return out
	}

	if strings.HasPrefix(raw, "[") {
		var items []any
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return out
		}
		for _, it := range items {
			switch v := it.(type) {
			case string:
				if v != "" {
					out = append(out, v)
				}
			case float64:
				out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		return out
	}

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
