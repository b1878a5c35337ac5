// Package filter implements the in-memory filter and sort pipeline used by
// the local collection endpoints. Filtering happens before sorting; both are
// case-insensitive on text.
package filter

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Options describes one pass over a collection.
type Options struct {
	// Type keeps only items whose type matches exactly, ignoring case.
	// Empty means no type filtering.
	Type string
	// Search keeps items where any searchable field contains the term,
	// ignoring case. Empty means no search filtering.
	Search string
	// SortKey names the field to order by. Unknown keys fall back to name.
	SortKey string
	// Desc reverses the sort order.
	Desc bool
}

// Fields describes how to read a collection's item type. Strings holds
// lexical sort keys, Numbers holds keys compared by their leading integer.
type Fields[T any] struct {
	Type       func(T) string
	Searchable []func(T) string
	Strings    map[string]func(T) string
	Numbers    map[string]func(T) string
}

// Apply filters and sorts items according to opts. The input slice is not
// modified; the result is a fresh slice.
func Apply[T any](items []T, fields Fields[T], opts Options) []T {
	out := make([]T, 0, len(items))

	typ := strings.ToLower(opts.Type)
	search := strings.ToLower(opts.Search)
	for _, item := range items {
		if typ != "" && strings.ToLower(fields.Type(item)) != typ {
			continue
		}
		if search != "" && !matches(item, fields.Searchable, search) {
			continue
		}
		out = append(out, item)
	}

	less := lessFunc(fields, opts.SortKey)
	sort.SliceStable(out, func(i, j int) bool {
		if opts.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out
}

func matches[T any](item T, searchable []func(T) string, term string) bool {
	for _, field := range searchable {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func lessFunc[T any](fields Fields[T], key string) func(a, b T) bool {
	if get, ok := fields.Numbers[key]; ok {
		return func(a, b T) bool {
			return leadingInt(get(a)) < leadingInt(get(b))
		}
	}
	get, ok := fields.Strings[key]
	if !ok {
		get = fields.Strings["name"]
	}
	return func(a, b T) bool {
		return strings.ToLower(get(a)) < strings.ToLower(get(b))
	}
}

// leadingInt parses the integer prefix of a value like "150 EUR" or "45".
// Values with no digit prefix sort before every parseable value.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return math.MinInt64
	}
	return n
}
