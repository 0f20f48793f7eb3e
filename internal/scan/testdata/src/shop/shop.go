// Package shop is a fixture for access scanning tests.
package shop

import "strings"

// Item is a line of a cart.
type Item struct {
	SKU   string
	Count int
}

// Ledger records totals.
type Ledger struct {
	Total int
}

// Record adds n to the ledger total.
func (l *Ledger) Record(n int, note string) {
	l.Total += n
	_ = note
}

// Cart holds items and a ledger.
type Cart struct {
	Items  []Item
	ledger *Ledger
	closed bool
}

// NewCart constructs a cart writing to ledger.
func NewCart(ledger *Ledger) *Cart {
	return &Cart{ledger: ledger}
}

// Checkout records every item and closes the cart.
func (c *Cart) Checkout(discount int) int {
	total := 0
	for _, it := range c.Items {
		total += it.Count
	}
	c.ledger.Record(total-discount, strings.ToUpper("checkout"))
	c.closed = true
	return total
}

var opened int

// Open creates a cart and counts it.
func Open() *Cart {
	opened++
	return NewCart(&Ledger{})
}

// IsClosed reports whether the cart was checked out.
func (c Cart) IsClosed() bool {
	return c.closed
}

// Cursor remembers the last visited position.
type Cursor struct {
	pos int
}

// Seek moves the cursor over every item.
func (c *Cursor) Seek(items []Item) {
	for c.pos = range items {
	}
}
