package model

// The three local-storage item variants are independent shapes, deliberately
// not unified with CollectionItem. Their JSON tags are the backup interchange
// format and must not change: exported files are read back by header/key name.

// FigureItem is an owned figure on the checklist, placed on a shelf/display.
type FigureItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Franchise    string `json:"franchise"`
	Brand        string `json:"brand"`
	Serie        string `json:"serie"`
	YearReleased string `json:"yearReleased"`
	Condition    string `json:"condition"`
	Price        string `json:"price"`
	YearPurchase string `json:"yearPurchase"`
	UPC          string `json:"upc"`
	Logo         string `json:"logo"`
	Photo        string `json:"photo"`
	Tagline      string `json:"tagline"`
	Review       string `json:"review"`
	Shelf        string `json:"shelf"`
	Display      string `json:"display"`
	Ranking      int    `json:"ranking"`
	Comments     string `json:"comments"`
}

// WishlistItem is a wanted-but-not-owned figure.
type WishlistItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Franchise    string `json:"franchise"`
	Brand        string `json:"brand"`
	Serie        string `json:"serie"`
	YearReleased string `json:"yearReleased"`
	Price        string `json:"price"`
	Logo         string `json:"logo"`
	Photo        string `json:"photo"`
	Tagline      string `json:"tagline"`
	Review       string `json:"review"`
	Released     bool   `json:"released"`
	Buy          bool   `json:"buy"`
	Comments     string `json:"comments"`
}

// CustomItem is a custom build assembled from donor parts.
type CustomItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Franchise string `json:"franchise"`
	Head      string `json:"head"`
	Body      string `json:"body"`
	Logo      string `json:"logo"`
	Tagline   string `json:"tagline"`
	Comments  string `json:"comments"`
}
