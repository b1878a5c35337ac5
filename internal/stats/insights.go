// Package stats aggregates the local collections into the insights view.
package stats

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opaco/opacovault/internal/model"
)

// NameCount is one bucket of a grouped count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Insights is the aggregate view over all three local collections. Brand and
// type buckets cover every figure on the checklist, owned or not marked as
// such; the local model has no ownership flag to narrow by.
type Insights struct {
	FigureCount   int         `json:"figureCount"`
	WishlistCount int         `json:"wishlistCount"`
	CustomCount   int         `json:"customCount"`
	TotalValue    int64       `json:"totalValue"`
	BrandCounts   []NameCount `json:"brandCounts"`
	TypeCounts    []NameCount `json:"typeCounts"`
}

// Collect computes insights over the given collections. Type bucket names are
// normalized to a capitalized first letter so "neca" and "NECA" still land in
// separate buckets only when they differ beyond the first rune.
func Collect(figures []model.FigureItem, wishlist []model.WishlistItem, customs []model.CustomItem) Insights {
	ins := Insights{
		FigureCount:   len(figures),
		WishlistCount: len(wishlist),
		CustomCount:   len(customs),
		BrandCounts:   []NameCount{},
		TypeCounts:    []NameCount{},
	}

	brands := make(map[string]int)
	types := make(map[string]int)
	for _, f := range figures {
		if f.Brand != "" {
			brands[f.Brand]++
		}
		if f.Type != "" {
			types[capitalize(f.Type)]++
		}
		ins.TotalValue += priceValue(f.Price)
	}

	ins.BrandCounts = sortedCounts(brands)
	ins.TypeCounts = sortedCounts(types)
	return ins
}

func sortedCounts(m map[string]int) []NameCount {
	out := make([]NameCount, 0, len(m))
	for name, count := range m {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func capitalize(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// priceValue parses the integer prefix of a free-form price like "150 EUR".
// Unparseable prices contribute zero.
func priceValue(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var valuePrinter = message.NewPrinter(language.English)

// FormatValue renders a total with thousands separators, e.g. "150,000".
func FormatValue(v int64) string {
	return valuePrinter.Sprintf("%d", v)
}
