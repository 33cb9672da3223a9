package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/shashiranjanraj/storefront/app/models"
)

const (
	categorySlugPlaceholder = "category"
	productSlugPlaceholder  = "product"
)

var dashRun = regexp.MustCompile(`[-\s]+`)

// Slugify lower-cases s, keeps unicode letters and digits, and joins words
// with single dashes.
func Slugify(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '_', r == '-':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	out := dashRun.ReplaceAllString(strings.TrimSpace(b.String()), "-")
	return strings.Trim(out, "-_")
}

// SlugExistsFunc reports whether slug is taken by a record other than
// excludeID.
type SlugExistsFunc func(ctx context.Context, slug string, excludeID uint) (bool, error)

// UniqueSlug returns base, or base-1, base-2, ... for the first candidate
// not taken by another record.
func UniqueSlug(ctx context.Context, base string, excludeID uint, exists SlugExistsFunc) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// baseSlug picks the slug candidate before uniqueness: the current slug is
// kept unless it is empty or the name changed on an existing record.
func baseSlug(current, name string, nameChanged bool, placeholder string) string {
	base := Slugify(current)
	if base == "" || nameChanged {
		base = Slugify(name)
	}
	if base == "" {
		base = placeholder
	}
	return base
}

// PrepareCategoryForSave returns the base slug for c. prev is the stored
// row for updates and nil for inserts.
func PrepareCategoryForSave(c *models.Category, prev *models.Category) string {
	changed := prev != nil && prev.NameValue() != c.NameValue()
	if c.Name != nil {
		trimmed := strings.TrimSpace(*c.Name)
		if trimmed == "" {
			c.Name = nil
		} else {
			c.Name = &trimmed
		}
	}
	return baseSlug(c.Slug, c.NameValue(), changed, categorySlugPlaceholder)
}

// PrepareProductForSave clamps negative prices and stock to zero, defaults
// the product type, and returns the base slug.
func PrepareProductForSave(p *models.Product, prev *models.Product) string {
	p.Name = strings.TrimSpace(p.Name)
	if p.RegularPrice.IsNegative() {
		p.RegularPrice = decimal.Zero
	}
	if p.SalePrice.Valid && p.SalePrice.Decimal.IsNegative() {
		p.SalePrice.Decimal = decimal.Zero
	}
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	if !p.ProductType.Valid() {
		p.ProductType = models.ProductSimple
	}

	changed := prev != nil && prev.Name != p.Name
	return baseSlug(p.Slug, p.Name, changed, productSlugPlaceholder)
}
