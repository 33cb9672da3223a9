package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
)

// WishlistItem is the display summary of a wishlisted product.
type WishlistItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	RegularPrice float64  `json:"regular_price"`
	SalePrice    *float64 `json:"sale_price"`
	Image        string   `json:"image"`
}

type WishlistService struct {
	store       Store
	media       MediaURL
	placeholder string
}

func NewWishlistService(store Store, media MediaURL, placeholder string) *WishlistService {
	if media == nil {
		media = func(p string) string { return p }
	}
	return &WishlistService{store: store, media: media, placeholder: placeholder}
}

// WishlistIDs keeps the ids of raw that can name a product: strings holding
// an unsigned integer and integral JSON numbers. Everything else is
// dropped without error.
func WishlistIDs(raw []any) []uint {
	seen := make(map[uint]bool, len(raw))
	var out []uint
	add := func(id uint64) {
		if id == 0 || seen[uint(id)] {
			return
		}
		seen[uint(id)] = true
		out = append(out, uint(id))
	}

	for _, v := range raw {
		switch id := v.(type) {
		case string:
			if n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 0); err == nil {
				add(n)
			}
		case json.Number:
			if n, err := strconv.ParseUint(id.String(), 10, 0); err == nil {
				add(n)
			}
		case float64:
			if id >= 1 && id == float64(uint64(id)) {
				add(uint64(id))
			}
		case int:
			if id > 0 {
				add(uint64(id))
			}
		}
	}
	return out
}

// Resolve returns summaries of the active products among raw, ordered by
// name. Unknown or inactive ids are skipped.
func (s *WishlistService) Resolve(ctx context.Context, raw []any) ([]WishlistItem, error) {
	ids := WishlistIDs(raw)
	out := []WishlistItem{}
	if len(ids) == 0 {
		return out, nil
	}

	products, err := s.store.Products().ActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load wishlist products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID < products[j].ID
	})

	for _, p := range products {
		out = append(out, s.summary(p))
	}
	return out, nil
}

func (s *WishlistService) summary(p models.Product) WishlistItem {
	item := WishlistItem{
		ID:           strconv.FormatUint(uint64(p.ID), 10),
		Name:         p.Name,
		Slug:         p.Slug,
		RegularPrice: p.RegularPrice.InexactFloat64(),
		Image:        s.placeholder,
	}
	if p.SalePrice.Valid {
		f := p.SalePrice.Decimal.InexactFloat64()
		item.SalePrice = &f
	}
	if img := p.PrimaryImage(); img != nil && img.Path != "" {
		item.Image = s.media(img.Path)
	}
	return item
}
