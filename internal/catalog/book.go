package catalog

import "strings"

// Book is the record shape the backend returns for catalog listings.
type Book struct {
	BookID   int     `json:"book_id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Disc     float64 `json:"disc,omitempty"` // discount percent, 0-100
	Path     string  `json:"path"`
	Category int     `json:"category_id,omitempty"`
}

// Content is the detail record for a single book.
type Content struct {
	ContentID   int    `json:"content_id"`
	Description string `json:"description"`
}

// DiscountedPrice applies the book's discount percentage to its list price.
func (b Book) DiscountedPrice() float64 {
	if b.Disc == 0 {
		return b.Price
	}
	return b.Price - (b.Price * b.Disc / 100)
}

// Filter performs the list screen's local search: case-insensitive substring
// match on title or author. A blank query matches nothing.
func Filter(books []Book, query string) []Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matched []Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			matched = append(matched, b)
		}
	}
	return matched
}
