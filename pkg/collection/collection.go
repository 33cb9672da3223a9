// Package collection provides small generic helpers for working with slices
// in the catalog pipeline: filtering, de-duplication, grouping, stable
// sorting and page slicing.
//
//	active := collection.Filter(products, func(p models.Product) bool { return p.IsActive })
//	byID := collection.KeyBy(products, func(p models.Product) uint { return p.ID })
package collection

import (
	"cmp"
	"slices"
	"sort"
)

// Map transforms each element of s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which fn returns true. The result
// never aliases s.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether any element of s satisfies fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	_, ok := First(s, fn)
	return ok
}

// GroupBy partitions s into a map keyed by fn, preserving input order
// inside each group.
func GroupBy[T any, K comparable](s []T, fn func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// UniqueBy keeps the first occurrence of each key produced by fn.
func UniqueBy[T any, K comparable](s []T, fn func(T) K) []T {
	seen := make(map[K]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		k := fn(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SortedDistinct returns the distinct values of s in ascending order,
// skipping the zero value.
func SortedDistinct[T cmp.Ordered](s []T) []T {
	var zero T
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if v == zero {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// SortStableBy sorts s in place with less, keeping equal elements in their
// original order.
func SortStableBy[T any](s []T, less func(a, b T) bool) []T {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
	return s
}

// KeyBy indexes s by fn. The last element wins on duplicate keys.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}

// Take returns at most the first n elements.
func Take[T any](s []T, n int) []T {
	if n < 0 {
		return nil
	}
	if n >= len(s) {
		return s
	}
	return s[:n]
}

// PageMeta describes one page of a paginated slice.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total_count"`
	NumPages int `json:"num_pages"`
}

// Paginate returns page number page (1-indexed) of s. Pages below 1 are
// treated as 1 and pages past the end as the last page; an empty slice has
// exactly one empty page.
func Paginate[T any](s []T, page, size int) ([]T, PageMeta) {
	if size <= 0 {
		size = len(s)
		if size == 0 {
			size = 1
		}
	}

	numPages := (len(s) + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}

	meta := PageMeta{Page: page, PageSize: size, Total: len(s), NumPages: numPages}

	start := (page - 1) * size
	if start >= len(s) {
		return []T{}, meta
	}
	end := min(start+size, len(s))
	return s[start:end], meta
}
