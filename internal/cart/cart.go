package cart

import (
	"sync"

	"github.com/example/bookstore-storefront/internal/catalog"
)

// Item is a single cart line. Price is the discounted unit price captured at
// the moment the book was added; one unit per book.
type Item struct {
	BookID int     `json:"book_id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
}

// Cart holds the books selected for purchase. It is safe for concurrent use;
// identity is the stable catalog book id, so two books sharing a title do not
// collide.
type Cart struct {
	mu    sync.Mutex
	items []Item
	index map[int]int // bookID -> position in items
}

func New() *Cart {
	return &Cart{index: make(map[int]int)}
}

// Add appends the book with its discount applied. Adding a book that is
// already in the cart is a no-op; the return value reports whether the cart
// changed.
func (c *Cart) Add(b catalog.Book) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[b.BookID]; ok {
		return false
	}
	c.index[b.BookID] = len(c.items)
	c.items = append(c.items, Item{
		BookID: b.BookID,
		Title:  b.Title,
		Price:  b.DiscountedPrice(),
	})
	return true
}

// Remove drops the book from the cart, reporting whether it was present.
func (c *Cart) Remove(bookID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index[bookID]
	if !ok {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, bookID)
	for id, p := range c.index {
		if p > pos {
			c.index[id] = p - 1
		}
	}
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.index = make(map[int]int)
}

// Total is the sum of the stored (already discounted) prices.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Titles returns the line titles in insertion order, the shape the order
// payload wants.
func (c *Cart) Titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	titles := make([]string, len(c.items))
	for i, it := range c.items {
		titles[i] = it.Title
	}
	return titles
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Contains reports whether the book is already in the cart, which the list
// screen uses to flip the add button to "Added to Cart".
func (c *Cart) Contains(bookID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[bookID]
	return ok
}
