package filter

import (
	"strconv"

	"github.com/opaco/opacovault/internal/model"
)

// FigureFields maps the checklist item shape into the filter pipeline.
func FigureFields() Fields[model.FigureItem] {
	return Fields[model.FigureItem]{
		Type: func(f model.FigureItem) string { return f.Type },
		Searchable: []func(model.FigureItem) string{
			func(f model.FigureItem) string { return f.Name },
			func(f model.FigureItem) string { return f.Franchise },
			func(f model.FigureItem) string { return f.Brand },
			func(f model.FigureItem) string { return f.Serie },
		},
		Strings: map[string]func(model.FigureItem) string{
			"name":      func(f model.FigureItem) string { return f.Name },
			"brand":     func(f model.FigureItem) string { return f.Brand },
			"franchise": func(f model.FigureItem) string { return f.Franchise },
			"serie":     func(f model.FigureItem) string { return f.Serie },
			"condition": func(f model.FigureItem) string { return f.Condition },
			"shelf":     func(f model.FigureItem) string { return f.Shelf },
			"display":   func(f model.FigureItem) string { return f.Display },
		},
		Numbers: map[string]func(model.FigureItem) string{
			"price":        func(f model.FigureItem) string { return f.Price },
			"yearReleased": func(f model.FigureItem) string { return f.YearReleased },
			"yearPurchase": func(f model.FigureItem) string { return f.YearPurchase },
			"ranking":      func(f model.FigureItem) string { return strconv.Itoa(f.Ranking) },
		},
	}
}

// WishlistFields maps the wishlist item shape into the filter pipeline.
func WishlistFields() Fields[model.WishlistItem] {
	return Fields[model.WishlistItem]{
		Type: func(w model.WishlistItem) string { return w.Type },
		Searchable: []func(model.WishlistItem) string{
			func(w model.WishlistItem) string { return w.Name },
			func(w model.WishlistItem) string { return w.Franchise },
			func(w model.WishlistItem) string { return w.Brand },
			func(w model.WishlistItem) string { return w.Serie },
		},
		Strings: map[string]func(model.WishlistItem) string{
			"name":      func(w model.WishlistItem) string { return w.Name },
			"brand":     func(w model.WishlistItem) string { return w.Brand },
			"franchise": func(w model.WishlistItem) string { return w.Franchise },
			"serie":     func(w model.WishlistItem) string { return w.Serie },
		},
		Numbers: map[string]func(model.WishlistItem) string{
			"price":        func(w model.WishlistItem) string { return w.Price },
			"yearReleased": func(w model.WishlistItem) string { return w.YearReleased },
		},
	}
}

// CustomFields maps the custom-build item shape into the filter pipeline.
func CustomFields() Fields[model.CustomItem] {
	return Fields[model.CustomItem]{
		Type: func(c model.CustomItem) string { return c.Type },
		Searchable: []func(model.CustomItem) string{
			func(c model.CustomItem) string { return c.Name },
			func(c model.CustomItem) string { return c.Franchise },
			func(c model.CustomItem) string { return c.Head },
			func(c model.CustomItem) string { return c.Body },
		},
		Strings: map[string]func(model.CustomItem) string{
			"name":      func(c model.CustomItem) string { return c.Name },
			"franchise": func(c model.CustomItem) string { return c.Franchise },
			"head":      func(c model.CustomItem) string { return c.Head },
			"body":      func(c model.CustomItem) string { return c.Body },
		},
	}
}
